// Package layouts discovers the conventional default layout component.
// Pages created without an explicit layout fall back to the "index"
// layout when <layouts-dir>/index.<ext> exists on disk.
package layouts

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// componentExts are the component file extensions recognized for layouts.
var componentExts = map[string]struct{}{
	".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
}

// Resolver caches whether a default layout exists. Watch keeps the cache
// fresh while the dev server runs.
type Resolver struct {
	dir string

	mu  sync.RWMutex
	def string
}

// NewResolver scans dir once and returns a resolver for it.
func NewResolver(dir string) *Resolver {
	r := &Resolver{dir: dir}
	r.refresh()
	return r
}

// DefaultLayout returns the conventional default layout name, if one
// exists.
func (r *Resolver) DefaultLayout() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.def, r.def != ""
}

func (r *Resolver) refresh() {
	def := ""
	entries, err := os.ReadDir(r.dir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			ext := filepath.Ext(name)
			if _, ok := componentExts[ext]; !ok {
				continue
			}
			if strings.TrimSuffix(name, ext) == "index" {
				def = "index"
				break
			}
		}
	}
	r.mu.Lock()
	r.def = def
	r.mu.Unlock()
}

// Watch keeps the default-layout cache in sync with the layouts directory
// until ctx is cancelled. A missing directory is fine; the resolver just
// reports no default.
func (r *Resolver) Watch(ctx context.Context, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(r.dir); err != nil {
		logger.Debug("layouts: dir not watchable", slog.String("dir", r.dir), slog.String("error", err.Error()))
		<-ctx.Done()
		return nil
	}

	logger.Info("layouts: watching", slog.String("dir", r.dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("layouts: watcher stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				r.refresh()
				logger.Debug("layouts: refreshed", slog.String("trigger", ev.Name))
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("layouts: watch error", slog.String("error", watchErr.Error()))
		}
	}
}
