package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDebounce collapses the burst of events editors emit for one save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads a model's VM whenever a .lua file under root/<model>/
// changes, until ctx is cancelled. A failed reload is logged and the model
// keeps its previous VM. Units keep their resolved hooks; reloading changes
// the function bodies those hooks call, not which hooks exist.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns nil after ctx is cancelled, or an error if the watch could not be set up.
func (m *Manager) Watch(ctx context.Context, root string, instLimit int) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scripting: creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return fmt.Errorf("scripting: watching %q: %w", root, err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.Add(filepath.Join(root, e.Name())); err != nil {
				return fmt.Errorf("scripting: watching %q: %w", e.Name(), err)
			}
		}
	}
	m.logger.Info("scripting: watching scripts", zap.String("root", root))

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(reloadDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			m.handleEvent(w, root, ev, pending)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.logger.Warn("scripting: watcher error", zap.Error(err))
		case now := <-ticker.C:
			for model, at := range pending {
				if now.Sub(at) < reloadDebounce {
					continue
				}
				delete(pending, model)
				m.reload(model, filepath.Join(root, model), instLimit)
			}
		}
	}
}

func (m *Manager) handleEvent(w *fsnotify.Watcher, root string, ev fsnotify.Event, pending map[string]time.Time) {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	dir, name := filepath.Split(ev.Name)
	if filepath.Clean(dir) == filepath.Clean(root) {
		// A new model directory.
		if ev.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				if err := w.Add(ev.Name); err != nil {
					m.logger.Warn("scripting: watching new model dir", zap.String("dir", ev.Name), zap.Error(err))
					return
				}
				pending[name] = time.Now()
			}
		}
		return
	}
	if !strings.EqualFold(filepath.Ext(name), ".lua") {
		return
	}
	pending[filepath.Base(filepath.Clean(dir))] = time.Now()
}

func (m *Manager) reload(model, dir string, instLimit int) {
	start := time.Now()
	if err := m.LoadModel(model, dir, instLimit); err != nil {
		m.logger.Warn("scripting: reload failed; keeping previous scripts",
			zap.String("model", model),
			zap.Error(err),
		)
		return
	}
	m.logger.Info("scripting: model reloaded",
		zap.String("model", model),
		zap.Duration("elapsed", time.Since(start)),
	)
}
