// Package actions implements the public mutation operations of the
// content graph. Every operation validates its preconditions against the
// ownership registry, schema validator, and change detector, then returns
// a Result carrying at most one event. Nothing is applied to shared state
// here — either every check passes and exactly one well-formed event is
// produced, or no event is emitted at all.
package actions

import (
	"log/slog"

	"github.com/danielfarrell/gatsby/internal/changedetect"
	"github.com/danielfarrell/gatsby/internal/deps"
	"github.com/danielfarrell/gatsby/internal/model"
	"github.com/danielfarrell/gatsby/internal/ownership"
)

// GraphReader is the read surface the action layer needs from the node
// store.
type GraphReader interface {
	GetNode(id string) (*model.Node, bool)
}

// LayoutResolver reports the conventional default layout, if one exists
// on disk.
type LayoutResolver interface {
	DefaultLayout() (string, bool)
}

// Program is the read-only build configuration snapshot used for layout
// fallback and redirect path-prefixing.
type Program struct {
	Directory   string
	PathPrefix  string
	PrefixPaths bool
}

// Config wires an Actions instance. Registry, Graph, Classifier, and
// Tracker are required; Layouts and Logger are optional.
type Config struct {
	Registry   *ownership.Registry
	Graph      GraphReader
	Classifier *changedetect.Classifier
	Tracker    *deps.Tracker
	Program    Program
	Layouts    LayoutResolver
	Logger     *slog.Logger
}

// Actions exposes the mutation operation set.
type Actions struct {
	registry   *ownership.Registry
	graph      GraphReader
	classifier *changedetect.Classifier
	tracker    *deps.Tracker
	program    Program
	layouts    LayoutResolver
	logger     *slog.Logger
}

// New creates the action layer.
func New(cfg Config) *Actions {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{
		registry:   cfg.Registry,
		graph:      cfg.Graph,
		classifier: cfg.Classifier,
		tracker:    cfg.Tracker,
		program:    cfg.Program,
		layouts:    cfg.Layouts,
		logger:     logger,
	}
}
