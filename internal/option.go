package internal

import (
	"context"

	"github.com/danielfarrell/gatsby/internal/session"
)

// SourcePlugin contributes nodes (and optionally pages) to the graph
// during bootstrap. Plugins run concurrently; the session serializes
// their mutations.
type SourcePlugin interface {
	Name() string
	SourceNodes(ctx context.Context, api *session.PluginAPI) error
}

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	plugins []SourcePlugin
	mcp     bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithPlugins registers source plugins to run during bootstrap.
func WithPlugins(plugins ...SourcePlugin) Option {
	return func(a *application) {
		a.plugins = append(a.plugins, plugins...)
	}
}

// WithMCP also serves the graph over MCP stdio transport.
func WithMCP() Option {
	return func(a *application) {
		a.mcp = true
	}
}
