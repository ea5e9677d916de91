package actions

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/schema"
)

// CreatePage registers a rendered page. The path is normalized to a
// leading slash, derived names are filled in, and the layout falls back
// to the conventional default when one exists on disk. Validation
// failures are reported, not fatal.
func (a *Actions) CreatePage(page *model.Page, plugin, traceID string) Result {
	if page == nil || page.Path == "" {
		return Reported(Diagnostic{
			Code:    "create-page/missing-path",
			Message: "createPage requires a page with a path",
			Plugin:  plugin,
			Record:  page,
		})
	}

	p := clonePage(page)
	if !strings.HasPrefix(p.Path, "/") {
		p.Path = "/" + p.Path
	}
	p.JSONName = model.PageJSONName(p.Path)
	p.InternalComponentName = model.PageComponentName(p.Path)
	p.ComponentChunkName = model.ComponentChunkName(p.Component)
	if p.Layout == "" && a.layouts != nil {
		if def, ok := a.layouts.DefaultLayout(); ok {
			p.Layout = def
		}
	}

	if res := schema.ValidatePage(p); !res.OK {
		return Reported(Diagnostic{
			Code:    "create-page/invalid",
			Message: fmt.Sprintf("invalid page: %s: %s", res.Field, res.Message),
			Plugin:  plugin,
			Field:   res.Field,
			Record:  page,
		})
	}

	p.UpdatedAt = time.Now()
	return Ok(event.New(event.CreatePage, plugin, traceID, p))
}

// DeletePage removes a page; its dependency records go with it.
func (a *Actions) DeletePage(path, plugin, traceID string) Result {
	return Ok(event.New(event.DeletePage, plugin, traceID, path))
}

// CreateLayout registers a shared layout component. The id defaults to
// the component file's base name and the machine id is derived from it.
func (a *Actions) CreateLayout(layout *model.Layout, plugin, traceID string) Result {
	if layout == nil {
		return Reported(Diagnostic{
			Code:    "create-layout/missing",
			Message: "createLayout requires a layout record",
			Plugin:  plugin,
		})
	}

	l := cloneLayout(layout)
	if l.ID == "" {
		base := filepath.Base(l.Component)
		l.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	l.MachineID = model.LayoutMachineID(l.ID)
	l.ComponentChunkName = model.LayoutChunkName(l.ID)

	if res := schema.ValidateLayout(l); !res.OK {
		return Reported(Diagnostic{
			Code:    "create-layout/invalid",
			Message: fmt.Sprintf("invalid layout: %s: %s", res.Field, res.Message),
			Plugin:  plugin,
			Field:   res.Field,
			Record:  layout,
		})
	}
	return Ok(event.New(event.CreateLayout, plugin, traceID, l))
}

// DeleteLayout removes a layout by id.
func (a *Actions) DeleteLayout(id, plugin, traceID string) Result {
	return Ok(event.New(event.DeleteLayout, plugin, traceID, id))
}

// CreateRedirect registers a path redirect. When the program is configured
// to prefix paths, both ends of internal redirects get the path prefix;
// external targets are left alone.
func (a *Actions) CreateRedirect(r *model.Redirect, plugin, traceID string) Result {
	if r == nil || r.FromPath == "" || r.ToPath == "" {
		return Reported(Diagnostic{
			Code:    "create-redirect/missing-path",
			Message: "createRedirect requires fromPath and toPath",
			Plugin:  plugin,
			Record:  r,
		})
	}
	red := *r
	if a.program.PrefixPaths && a.program.PathPrefix != "" {
		red.FromPath = a.program.PathPrefix + red.FromPath
		if !strings.Contains(red.ToPath, "://") {
			red.ToPath = a.program.PathPrefix + red.ToPath
		}
	}
	return Ok(event.New(event.CreateRedirect, plugin, traceID, &red))
}

func clonePage(p *model.Page) *model.Page {
	c := *p
	if p.Context != nil {
		c.Context = make(map[string]any, len(p.Context))
		for k, v := range p.Context {
			c.Context[k] = v
		}
	}
	return &c
}

func cloneLayout(l *model.Layout) *model.Layout {
	c := *l
	if l.Context != nil {
		c.Context = make(map[string]any, len(l.Context))
		for k, v := range l.Context {
			c.Context[k] = v
		}
	}
	return &c
}
