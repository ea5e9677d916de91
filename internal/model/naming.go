package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// words splits s into alphanumeric word runs, treating any other rune and
// lower-to-upper case transitions as boundaries.
func words(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
		prev = r
	}
	flush()
	return out
}

// KebabCase converts s to lower-case words joined by dashes.
func KebabCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "-")
}

// PascalCase converts s to upper-camel-case.
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range words(s) {
		first, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(first))
		b.WriteString(strings.ToLower(w[size:]))
	}
	return b.String()
}

// PageJSONName derives the query-result file name for a page path. The root
// path maps to index.json.
func PageJSONName(path string) string {
	k := KebabCase(path)
	if k == "" {
		return "index.json"
	}
	return k + ".json"
}

// PageComponentName derives the internal component name for a page path.
// The root path maps to ComponentIndex.
func PageComponentName(path string) string {
	p := PascalCase(path)
	if p == "" {
		return "ComponentIndex"
	}
	return "Component" + p
}

// ComponentChunkName derives the webpack chunk name for a page component
// file.
func ComponentChunkName(component string) string {
	return "component---" + KebabCase(component)
}

// LayoutMachineID derives the machine id for a layout.
func LayoutMachineID(id string) string {
	return "layout---" + id
}

// LayoutChunkName derives the webpack chunk name for a layout component.
func LayoutChunkName(id string) string {
	return "layout-component---" + KebabCase(id)
}
