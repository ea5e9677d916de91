package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danielfarrell/gatsby/internal/session"
)

// NewRouter creates a chi router with the inspection routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(s *session.Session, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(s)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Node graph.
	r.Get("/nodes", h.ListNodes)
	r.Get("/nodes/{id}", h.GetNode)
	r.Get("/nodes/{id}/dependants", h.NodeDependants)
	r.Get("/types", h.ListTypes)

	// Pages, layouts, redirects.
	r.Get("/pages", h.ListPages)
	r.Get("/layouts", h.ListLayouts)
	r.Get("/redirects", h.ListRedirects)

	// Aggregates.
	r.Get("/stats", h.Stats)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
