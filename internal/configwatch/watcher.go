// Package configwatch reloads a configuration file when it changes on disk.
package configwatch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/knapsack/internal/ports"
)

// DefaultDebounce coalesces bursts of write events from editors.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc re-reads the watched file.
type ReloadFunc func(ctx context.Context, path string) error

// Watcher monitors a single file via fsnotify and calls a ReloadFunc after
// it settles. The parent directory is watched so that atomic renames by
// editors are seen.
type Watcher struct {
	path     string
	reload   ReloadFunc
	logger   ports.Logger
	debounce time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for path.
func New(path string, reload ReloadFunc, logger ports.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// Run watches until ctx ends. It returns an error only if watching cannot start.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching config", ports.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", ports.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := w.reload(ctx, w.path); err != nil {
			w.logger.Error("config reload failed", ports.String("path", w.path), ports.Err(err))
			return
		}
		w.logger.Info("config reloaded", ports.String("path", w.path))
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
