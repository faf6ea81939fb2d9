package core

// watcher.go reloads the table when a local CSV file changes.
//
// The parent directory is watched rather than the file itself so that
// editors and exporters that replace the file by rename are still seen.
// Bursts of events are collapsed into one reload after a short quiet period.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period before a reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// FileWatcher loads Path at start and again after every change.
type FileWatcher struct {
	service  *Service
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFileWatcher watches path for s.
func NewFileWatcher(s *Service, path string, logger *slog.Logger) *FileWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		service:  s,
		path:     filepath.Clean(path),
		debounce: DefaultWatchDebounce,
		logger:   logger,
	}
}

// Run loads the file once, then reloads on write, create or rename until
// ctx is cancelled. Only watcher setup failures are returned.
func (w *FileWatcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching leads file", "path", w.path)

	w.reload(ctx)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("file watcher stopped", "path", w.path)
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("leads file changed", "op", ev.Op.String())
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *FileWatcher) reload(ctx context.Context) {
	status, err := w.service.LoadFile(ctx, w.path)
	switch {
	case err == nil:
		w.logger.Info("leads file loaded", "path", w.path, "rows", status.Rows)
	case IsSuperseded(err):
	case errors.Is(err, context.Canceled):
	default:
		w.logger.Warn("leads file load failed", "path", w.path, "error", err)
	}
}
