package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielfarrell/gatsby/internal/session"
)

// Handler holds the inspection route handlers. All routes are read-only:
// mutations only enter the graph through the action layer.
type Handler struct {
	s *session.Session
}

// NewHandler creates a new Handler.
func NewHandler(s *session.Session) *Handler {
	return &Handler{s: s}
}

// ListNodes handles GET /nodes. With ?type= it returns the nodes of one
// type; without it, all node ids.
func (h *Handler) ListNodes(w http.ResponseWriter, r *http.Request) {
	typ := r.URL.Query().Get("type")
	if typ != "" {
		nodes := h.s.Store.NodesByType(typ)
		writeJSON(w, http.StatusOK, map[string]any{
			"nodes": nodes,
			"total": len(nodes),
		})
		return
	}
	ids := h.s.Store.NodeIDs()
	writeJSON(w, http.StatusOK, map[string]any{
		"ids":   ids,
		"total": len(ids),
	})
}

// GetNode handles GET /nodes/{id}.
func (h *Handler) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	node, ok := h.s.Store.GetNode(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// NodeDependants handles GET /nodes/{id}/dependants: the page paths whose
// rendered output depends on the node.
func (h *Handler) NodeDependants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	paths := h.s.Tracker.PathsDependingOnNode(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"nodeId": id,
		"paths":  paths,
	})
}

// ListTypes handles GET /types: every node type with its owning plugin.
func (h *Handler) ListTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"types":  h.s.Store.Types(),
		"owners": h.s.Registry.Types(),
	})
}

// ListPages handles GET /pages.
func (h *Handler) ListPages(w http.ResponseWriter, _ *http.Request) {
	pages := h.s.Pages()
	writeJSON(w, http.StatusOK, map[string]any{
		"pages": pages,
		"total": len(pages),
	})
}

// ListLayouts handles GET /layouts.
func (h *Handler) ListLayouts(w http.ResponseWriter, _ *http.Request) {
	layouts := h.s.Layouts()
	writeJSON(w, http.StatusOK, map[string]any{
		"layouts": layouts,
		"total":   len(layouts),
	})
}

// ListRedirects handles GET /redirects.
func (h *Handler) ListRedirects(w http.ResponseWriter, _ *http.Request) {
	redirects := h.s.Redirects()
	writeJSON(w, http.StatusOK, map[string]any{
		"redirects": redirects,
		"total":     len(redirects),
	})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":        h.s.Store.Len(),
		"types":        len(h.s.Store.Types()),
		"pages":        len(h.s.Pages()),
		"layouts":      len(h.s.Layouts()),
		"dependencies": h.s.Tracker.Len(),
	})
}
