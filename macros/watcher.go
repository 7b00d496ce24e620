package macros

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/promptloom/promptloom/errors"
	"github.com/promptloom/promptloom/logger"
)

// ReloadCallback is called after a successful macro reload with the number of
// definitions now loaded.
type ReloadCallback func(count int)

// Watcher hot-reloads a registry's loaded macro set when TOML files in the
// watched directory change.
type Watcher struct {
	dir      string
	registry *Registry
	watcher  *fsnotify.Watcher

	mu             sync.Mutex
	callbacks      []ReloadCallback
	debounceTimer  *time.Timer
	debouncePeriod time.Duration
}

// NewWatcher creates a watcher for a macro directory. Call Start to begin
// receiving events.
func NewWatcher(dir string, registry *Registry) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "watching macro directory %s", dir)
	}

	return &Watcher{
		dir:            dir,
		registry:       registry,
		watcher:        fw,
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// OnReload registers a callback fired after each successful reload.
func (w *Watcher) OnReload(callback ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start performs an initial load and begins watching in a goroutine.
func (w *Watcher) Start() error {
	if err := w.reload(); err != nil {
		return err
	}
	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			logger.Infow("Macro watcher detected change",
				"file", event.Name,
				"op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warnw("Macro watcher error",
				logger.FieldError, err)
		}
	}
}

// scheduleReload debounces rapid file changes before reloading.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		if err := w.reload(); err != nil {
			logger.Errorw("Macro reload failed",
				logger.FieldError, err)
		}
	})
}

// reload swaps the registry's loaded set from the directory contents. A parse
// failure leaves the previous set in place.
func (w *Watcher) reload() error {
	defs, err := LoadDir(w.dir)
	if err != nil {
		return err
	}
	w.registry.SetLoaded(defs)

	logger.Infow("Macros reloaded",
		"dir", w.dir,
		logger.FieldMacroCount, len(defs))

	w.mu.Lock()
	callbacks := make([]ReloadCallback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, callback := range callbacks {
		callback(len(defs))
	}
	return nil
}

// Stop ends watching. Pending debounced reloads may still fire.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
