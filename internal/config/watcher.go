// ABOUTME: Polling watcher that reloads undo settings when config files change
// ABOUTME: Delivers freshly loaded Settings to a callback on the watcher goroutine

package config

import (
	"os"
	"sync"
	"time"
)

// ReloadFunc receives the settings reloaded after a change, or the error
// that prevented loading them.
type ReloadFunc func(*Settings, error)

// Watcher polls the config files' mtimes and reloads settings on change.
type Watcher struct {
	root     string
	paths    []string
	onReload ReloadFunc
	interval time.Duration
	mtimes   map[string]time.Time
	stopCh   chan struct{}
	mu       sync.Mutex
	running  bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher for projectRoot's global and project files.
func NewWatcher(projectRoot string, onReload ReloadFunc) *Watcher {
	return newWatcher(projectRoot, ConfigFiles(projectRoot), onReload)
}

func newWatcher(root string, paths []string, onReload ReloadFunc) *Watcher {
	return &Watcher{
		root:     root,
		paths:    paths,
		onReload: onReload,
		interval: 2 * time.Second,
		mtimes:   make(map[string]time.Time),
		stopCh:   make(chan struct{}),
	}
}

// SetInterval overrides the default polling interval (2s).
func (w *Watcher) SetInterval(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interval = d
}

// Start begins polling in a goroutine. Subsequent calls are no-ops.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.snapshotLocked()
	w.mu.Unlock()

	go w.loop()
}

// Stop halts the polling goroutine. Safe to call multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		close(w.stopCh)
	})
}

// Check reloads synchronously if any file changed since the last snapshot.
// It reports whether a reload happened.
func (w *Watcher) Check() bool {
	w.mu.Lock()
	changed := w.checkLocked()
	if changed {
		w.snapshotLocked()
	}
	w.mu.Unlock()

	if changed {
		w.reload()
	}
	return changed
}

func (w *Watcher) reload() {
	s, err := Load(w.root)
	w.onReload(s, err)
}

func (w *Watcher) loop() {
	w.mu.Lock()
	interval := w.interval
	w.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Check()
		}
	}
}

// checkLocked compares current mtimes with stored snapshots. Must hold mu.
func (w *Watcher) checkLocked() bool {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			if _, existed := w.mtimes[path]; existed {
				return true
			}
			continue
		}
		prev, ok := w.mtimes[path]
		if !ok || !info.ModTime().Equal(prev) {
			return true
		}
	}
	return false
}

// snapshotLocked records current mtimes. Must hold mu.
func (w *Watcher) snapshotLocked() {
	for _, path := range w.paths {
		info, err := os.Stat(path)
		if err != nil {
			delete(w.mtimes, path)
			continue
		}
		w.mtimes[path] = info.ModTime()
	}
}
