// Package schema validates page, layout, and node records before the
// action layer accepts them. Validation failures are returned as
// structured results, never as panics or Go errors, so the caller can
// include the offending record in a failure report.
package schema

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/danielfarrell/gatsby/internal/model"
)

// Result is the outcome of validating one record.
type Result struct {
	OK      bool   `json:"ok"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
	// Record is the submitted record, carried for failure reports.
	Record any `json:"record,omitempty"`
}

var leadingSlash = validation.NewStringRule(
	func(s string) bool { return strings.HasPrefix(s, "/") },
	"must begin with /",
)

// ValidatePage checks a page record. The path is expected to be
// normalized (leading slash) before validation.
func ValidatePage(p *model.Page) Result {
	if p == nil {
		return Result{Message: "page must be a record"}
	}
	err := validation.ValidateStruct(p,
		validation.Field(&p.Path, validation.Required, leadingSlash),
		validation.Field(&p.Component, validation.Required),
	)
	return fromErr(err, "", p)
}

// ValidateLayout checks a layout record.
func ValidateLayout(l *model.Layout) Result {
	if l == nil {
		return Result{Message: "layout must be a record"}
	}
	err := validation.ValidateStruct(l,
		validation.Field(&l.Component, validation.Required),
	)
	return fromErr(err, "", l)
}

// ValidateNode checks a node record.
func ValidateNode(n *model.Node) Result {
	if n == nil {
		return Result{Message: "node must be a record"}
	}
	err := validation.ValidateStruct(n,
		validation.Field(&n.ID, validation.Required),
	)
	if err == nil {
		err = validation.ValidateStruct(&n.Internal,
			validation.Field(&n.Internal.Type, validation.Required),
			validation.Field(&n.Internal.ContentDigest, validation.Required),
		)
		return fromErr(err, "internal.", n)
	}
	return fromErr(err, "", n)
}

// fromErr converts an ozzo validation error into a Result, picking the
// lexically-first offending field for determinism. prefix qualifies field
// names validated on an embedded struct.
func fromErr(err error, prefix string, record any) Result {
	if err == nil {
		return Result{OK: true, Record: record}
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for f := range verrs {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		f := fields[0]
		return Result{Field: prefix + f, Message: verrs[f].Error(), Record: record}
	}
	return Result{Message: err.Error(), Record: record}
}
