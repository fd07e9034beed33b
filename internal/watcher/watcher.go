// Package watcher reloads project configs when intelephense.json
// changes on disk. Detection lives here; what a reload means is
// entirely the config store's business.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phpwatch/phpwatch/internal/config"
)

// DefaultDebounce collapses editor save bursts (atomic saves emit
// rename+create pairs) into one reload.
const DefaultDebounce = 300 * time.Millisecond

// LogFunc receives watcher status lines. Printf semantics.
type LogFunc func(format string, v ...interface{})

// ConfigWatcher watches registered project roots and triggers a
// debounced store reload whenever the config file in one of them is
// written, created, removed, or renamed.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	store    *config.Store
	debounce time.Duration
	logf     LogFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer // root → debounce timer
}

// New creates a watcher bound to a store. debounce <= 0 selects
// DefaultDebounce; logf may be nil.
func New(store *config.Store, debounce time.Duration, logf LogFunc) (*ConfigWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &ConfigWatcher{
		watcher:  fsw,
		store:    store,
		debounce: debounce,
		logf:     logf,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]*time.Timer),
	}

	w.wg.Add(1)
	go w.processEvents()
	return w, nil
}

// Watch registers a project root. The root directory itself is watched
// rather than the config file: the file may not exist yet, and atomic
// saves replace the inode.
func (w *ConfigWatcher) Watch(root string) error {
	if err := w.watcher.Add(root); err != nil {
		return err
	}
	w.logf("watching %s for %s changes", root, config.FileName)
	return nil
}

// Stop shuts the watcher down and waits for in-flight work. Pending
// debounce timers are discarded, not flushed.
func (w *ConfigWatcher) Stop() {
	w.cancel()
	w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	for root, timer := range w.pending {
		timer.Stop()
		delete(w.pending, root)
	}
	w.mu.Unlock()
}

func (w *ConfigWatcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != config.FileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload(filepath.Dir(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logf("watch error: %v", err)
		}
	}
}

// scheduleReload arms (or re-arms) the debounce timer for a root.
func (w *ConfigWatcher) scheduleReload(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[root]; ok {
		timer.Reset(w.debounce)
		return
	}

	w.pending[root] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, root)
		w.mu.Unlock()

		if w.ctx.Err() != nil {
			return
		}
		proj := w.store.Reload(root)
		w.logf("reloaded config for %s: %d patterns", root, proj.Rules.Len())
	})
}
