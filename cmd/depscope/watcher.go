package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/buildforge/depscope/pkg/observability"
	"github.com/buildforge/depscope/pkg/project"
)

// workspaceWatcher reloads the workspace file whenever it changes on disk.
// Events are debounced because editors and CI tooling typically emit several
// write/rename events per save.
type workspaceWatcher struct {
	path     string
	debounce time.Duration
	sync     *syncer
	log      *logrus.Logger
	metrics  *observability.Metrics
}

func newWorkspaceWatcher(path string, debounce time.Duration, sync *syncer, log *logrus.Logger, metrics *observability.Metrics) *workspaceWatcher {
	return &workspaceWatcher{
		path:     path,
		debounce: debounce,
		sync:     sync,
		log:      log,
		metrics:  metrics,
	}
}

// run watches until the context is cancelled. The parent directory is watched
// rather than the file itself: atomic saves replace the file, which would
// silently drop a watch on the old inode.
func (w *workspaceWatcher) run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create workspace watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.WithField("path", w.path).Info("watching workspace file")

	var pending *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(w.debounce)
				fire = pending.C
			} else {
				if !pending.Stop() {
					select {
					case <-pending.C:
					default:
					}
				}
				pending.Reset(w.debounce)
			}

		case <-fire:
			pending = nil
			fire = nil
			w.reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Error("workspace watcher error")
		}
	}
}

// reload re-reads the workspace and reconciles it into the registries and
// model. A bad document leaves the previous state in place.
func (w *workspaceWatcher) reload() {
	ws, err := project.LoadWorkspace(w.path)
	if err != nil {
		w.log.WithError(err).Error("workspace reload failed, keeping previous state")
		w.recordReload("error")
		return
	}
	if err := w.sync.apply(ws); err != nil {
		w.log.WithError(err).Error("workspace apply failed, state may be partial")
		w.recordReload("error")
		return
	}
	w.log.Info("workspace reloaded")
	w.recordReload("success")
}

func (w *workspaceWatcher) recordReload(result string) {
	if w.metrics != nil {
		w.metrics.WorkspaceReloadsTotal.WithLabelValues(result).Inc()
	}
}
