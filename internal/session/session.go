// Package session wires the content-graph components into one build
// session and serializes event application. A session owns its registry,
// store, tracker, and classifier; it is constructed at build start and
// discarded on teardown, never shared across builds.
package session

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/danielfarrell/gatsby/internal/actions"
	"github.com/danielfarrell/gatsby/internal/apperr"
	"github.com/danielfarrell/gatsby/internal/changedetect"
	"github.com/danielfarrell/gatsby/internal/deps"
	"github.com/danielfarrell/gatsby/internal/event"
	"github.com/danielfarrell/gatsby/internal/graph"
	"github.com/danielfarrell/gatsby/internal/journal"
	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/ownership"
	"github.com/danielfarrell/gatsby/internal/stream"
)

// Config wires a session. Journal and Broker are optional.
type Config struct {
	Program actions.Program
	Layouts actions.LayoutResolver
	Journal *journal.DB
	Broker  *stream.Broker
	Logger  *slog.Logger
}

// Session is one build's shared mutable state plus the reducer that
// applies events to it.
type Session struct {
	Registry   *ownership.Registry
	Store      *graph.Store
	Tracker    *deps.Tracker
	Classifier *changedetect.Classifier
	Actions    *actions.Actions

	journal *journal.DB
	broker  *stream.Broker
	logger  *slog.Logger

	mu        sync.Mutex
	pages     map[string]*model.Page
	layouts   map[string]*model.Layout
	redirects []*model.Redirect
}

// New creates a build session. When a journal is supplied, digests from
// earlier builds seed the change detector.
func New(cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := graph.NewStore()
	registry := ownership.NewRegistry()
	tracker := deps.NewTracker()
	classifier := changedetect.NewClassifier(store)

	if cfg.Journal != nil {
		digests, err := cfg.Journal.AllDigests()
		if err != nil {
			return nil, fmt.Errorf("session: load digests: %w", err)
		}
		classifier.Seed(digests)
		logger.Info("seeded change detection", slog.Int("digests", len(digests)))
	}

	act := actions.New(actions.Config{
		Registry:   registry,
		Graph:      store,
		Classifier: classifier,
		Tracker:    tracker,
		Program:    cfg.Program,
		Layouts:    cfg.Layouts,
		Logger:     logger,
	})

	return &Session{
		Registry:   registry,
		Store:      store,
		Tracker:    tracker,
		Classifier: classifier,
		Actions:    act,
		journal:    cfg.Journal,
		broker:     cfg.Broker,
		logger:     logger,
		pages:      make(map[string]*model.Page),
		layouts:    make(map[string]*model.Layout),
	}, nil
}

// FatalError carries a contract-violation diagnostic out to the build
// orchestrator, which decides whether to halt.
type FatalError struct {
	Diag *actions.Diagnostic
}

func (e *FatalError) Error() string {
	return e.Diag.String()
}

// Dispatch applies the outcome of one action. OK results apply exactly
// one event; Reported results are logged and journaled as ValidationError
// audit events without touching the graph; Fatal results return a
// FatalError and apply nothing. Dispatch is serialized, so every
// ownership and change-detection check inside an action observed a
// consistent snapshot by the time its event lands.
func (s *Session) Dispatch(res actions.Result) (*event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch res.Severity {
	case actions.SeverityFatal:
		s.logger.Error("plugin contract violation",
			slog.String("code", res.Diag.Code),
			slog.String("plugin", res.Diag.Plugin),
			slog.String("other_plugin", res.Diag.OtherPlugin),
			slog.String("node_id", res.Diag.NodeID),
			slog.String("message", res.Diag.Message))
		return nil, &FatalError{Diag: res.Diag}
	case actions.SeverityReported:
		s.logger.Warn("mutation rejected",
			slog.String("code", res.Diag.Code),
			slog.String("plugin", res.Diag.Plugin),
			slog.String("message", res.Diag.Message))
		audit := event.New(event.ValidationError, res.Diag.Plugin, "", res.Diag)
		s.record(audit)
		return nil, nil
	}

	ev := *res.Event
	if err := s.apply(ev); err != nil {
		return nil, err
	}
	s.record(ev)
	return res.Event, nil
}

// apply routes an event to the store, tracker, and page/layout tables.
// Payload types are checked: Dispatch is exported, so a malformed Result
// surfaces as an error instead of a panic.
func (s *Session) apply(ev event.Event) error {
	switch ev.Kind {
	case event.CreateNode:
		n, ok := ev.Payload.(*model.Node)
		if !ok {
			return badPayload(ev, "*model.Node")
		}
		s.Store.ApplyCreateNode(n)
		s.Store.TrackObjectsToRootNodeID(n)
		s.saveDigest(n.ID, n.Internal.ContentDigest)
	case event.TouchNode:
		id, ok := ev.Payload.(string)
		if !ok {
			return badPayload(ev, "string")
		}
		s.Store.ApplyTouchNode(id)
	case event.DeleteNode:
		id, ok := ev.Payload.(string)
		if !ok {
			return badPayload(ev, "string")
		}
		s.Store.ApplyDeleteNode(id)
		s.Classifier.Forget(id)
		s.dropDigest(id)
	case event.DeleteNodes:
		ids, ok := ev.Payload.([]string)
		if !ok {
			return badPayload(ev, "[]string")
		}
		s.Store.ApplyDeleteNodes(ids)
		for _, id := range ids {
			s.Classifier.Forget(id)
			s.dropDigest(id)
		}
	case event.AddFieldToNode:
		f, ok := ev.Payload.(event.NodeField)
		if !ok {
			return badPayload(ev, "event.NodeField")
		}
		s.Store.ApplyAddField(f.Node)
	case event.AddChildToParent:
		link, ok := ev.Payload.(event.ChildLink)
		if !ok {
			return badPayload(ev, "event.ChildLink")
		}
		return s.Store.ApplyLinkChild(link.ParentID, link.ChildID)
	case event.CreatePage:
		p, ok := ev.Payload.(*model.Page)
		if !ok {
			return badPayload(ev, "*model.Page")
		}
		// A rebuilt page starts with a clean dependency slate.
		s.Tracker.ClearPaths([]string{p.Path})
		s.pages[p.Path] = p
	case event.DeletePage:
		path, ok := ev.Payload.(string)
		if !ok {
			return badPayload(ev, "string")
		}
		s.Tracker.ClearPaths([]string{path})
		delete(s.pages, path)
	case event.CreateLayout:
		l, ok := ev.Payload.(*model.Layout)
		if !ok {
			return badPayload(ev, "*model.Layout")
		}
		s.layouts[l.ID] = l
	case event.DeleteLayout:
		id, ok := ev.Payload.(string)
		if !ok {
			return badPayload(ev, "string")
		}
		delete(s.layouts, id)
	case event.CreateComponentDependency:
		d, ok := ev.Payload.(event.Dependency)
		if !ok {
			return badPayload(ev, "event.Dependency")
		}
		s.Tracker.Record(d.Path, d.NodeID, d.Connection)
	case event.DeleteComponentsDependencies:
		paths, ok := ev.Payload.([]string)
		if !ok {
			return badPayload(ev, "[]string")
		}
		s.Tracker.ClearPaths(paths)
	case event.CreateRedirect:
		r, ok := ev.Payload.(*model.Redirect)
		if !ok {
			return badPayload(ev, "*model.Redirect")
		}
		s.redirects = append(s.redirects, r)
	}
	// Job, webpack, query, and plugin-status events pass through to the
	// journal and stream for their external collaborators.
	return nil
}

func badPayload(ev event.Event, want string) error {
	return fmt.Errorf("session: %s payload is %T, want %s", ev.Kind, ev.Payload, want)
}

func (s *Session) record(ev event.Event) {
	if s.journal != nil {
		if err := s.journal.RecordEvent(ev); err != nil {
			s.logger.Warn("journal write failed",
				slog.String("kind", string(ev.Kind)),
				slog.String("error", err.Error()))
		}
	}
	if s.broker != nil {
		s.broker.Publish(ev)
	}
}

func (s *Session) saveDigest(id, digest string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.SaveDigest(id, digest); err != nil {
		s.logger.Warn("digest write failed", slog.String("id", id), slog.String("error", err.Error()))
	}
}

func (s *Session) dropDigest(id string) {
	if s.journal == nil {
		return
	}
	if err := s.journal.DeleteDigest(id); err != nil {
		s.logger.Warn("digest delete failed", slog.String("id", id), slog.String("error", err.Error()))
	}
}

// GetPage returns a registered page by path.
func (s *Session) GetPage(path string) (*model.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[path]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return p, nil
}

// Pages returns all registered pages sorted by path.
func (s *Session) Pages() []*model.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Layouts returns all registered layouts sorted by id.
func (s *Session) Layouts() []*model.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Layout, 0, len(s.layouts))
	for _, l := range s.layouts {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Redirects returns all registered redirects in creation order.
func (s *Session) Redirects() []*model.Redirect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Redirect(nil), s.redirects...)
}
