// Package watcher runs the metadata pruner after files disappear from the
// assets tree outside the HTTP API (deleted in a file manager, synced away).
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"audiodeck/core/library"
	"audiodeck/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a prune runs.
const DefaultDebounce = 2 * time.Second

// Pruner is the part of library.Library the watcher needs.
type Pruner interface {
	Prune(ctx context.Context) (library.PruneResult, error)
}

// Watcher prunes metadata after remove/rename events under root.
type Watcher struct {
	root     string
	pruner   Pruner
	debounce time.Duration
	// onPrune is called after every prune run; used by tests.
	onPrune func(library.PruneResult, error)
}

// New creates a Watcher. A non-positive debounce uses DefaultDebounce.
func New(root string, pruner Pruner, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, pruner: pruner, debounce: debounce}
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer fw.Close()

	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("failed to create assets directory: %w", err)
	}
	if err := addTree(fw, w.root); err != nil {
		return err
	}
	logger.Info("assets watcher started", logger.String("root", w.root), logger.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(fw, event.Name); err != nil {
						logger.Warn("failed to watch new directory", logger.String("path", event.Name), logger.ErrorField(err))
					}
				}
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("assets watcher error", logger.ErrorField(err))

		case <-timer.C:
			res, err := w.pruner.Prune(ctx)
			if err != nil {
				logger.Error("auto prune failed", logger.ErrorField(err))
			} else if len(res.Removed) > 0 {
				logger.Info("auto prune removed stale metadata", logger.Strings("removed", res.Removed))
			}
			if w.onPrune != nil {
				w.onPrune(res, err)
			}
		}
	}
}

// addTree watches dir and every directory beneath it.
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The directory may vanish between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("监听目录失败 %s: %w", p, err)
		}
		return nil
	})
}
