// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/danielfarrell/gatsby/internal/actions"
	"github.com/danielfarrell/gatsby/internal/api"
	"github.com/danielfarrell/gatsby/internal/journal"
	"github.com/danielfarrell/gatsby/internal/layouts"
	"github.com/danielfarrell/gatsby/internal/mcpserver"
	"github.com/danielfarrell/gatsby/internal/session"
	"github.com/danielfarrell/gatsby/internal/stream"
)

// Run starts the application with the given options: it bootstraps a
// build session, runs the registered source plugins, and serves the
// inspection API over the resulting graph.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("site_directory", cfg.Site.Directory),
		slog.String("journal_path", cfg.Journal.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Open the build journal, if configured.
	var jdb *journal.DB
	if cfg.Journal.Path != "" {
		var err error
		jdb, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer jdb.Close()
	}

	// Layout fallback resolver.
	resolver := layouts.NewResolver(cfg.Site.ResolveLayoutsDir())

	// Event stream broker.
	broker := stream.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build session.
	sess, err := session.New(session.Config{
		Program: actions.Program{
			Directory:   cfg.Site.Directory,
			PathPrefix:  cfg.Site.PathPrefix,
			PrefixPaths: cfg.Site.PrefixPaths,
		},
		Layouts: resolver,
		Journal: jdb,
		Broker:  broker,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	// Run source plugins. They may run concurrently; the session
	// serializes event application.
	if len(app.plugins) > 0 {
		pg, pCtx := errgroup.WithContext(ctx)
		for _, p := range app.plugins {
			pg.Go(func() error {
				logger.Info("sourcing nodes", slog.String("plugin", p.Name()))
				if err := p.SourceNodes(pCtx, sess.Plugin(p.Name())); err != nil {
					return fmt.Errorf("plugin %s: %w", p.Name(), err)
				}
				return nil
			})
		}
		if err := pg.Wait(); err != nil {
			var fatal *session.FatalError
			if errors.As(err, &fatal) {
				logger.Error("build aborted", slog.String("diagnostic", fatal.Diag.String()))
			}
			return err
		}
		logger.Info("sourcing finished", slog.Int("nodes", sess.Store.Len()))
	}

	// Build inspection router.
	apiRouter := api.NewRouter(sess, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Keep the default-layout cache fresh.
	g.Go(func() error {
		return resolver.Watch(gCtx, logger)
	})

	// Serve the graph over MCP stdio when requested.
	if app.mcp {
		g.Go(func() error {
			logger.Info("Starting MCP server on stdio")
			return mcpserver.New(sess).ServeStdio()
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
