package config

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/qcfilter/errors"
	"github.com/teranos/qcfilter/logger"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// ReloadCallback receives every configuration that loaded and validated.
type ReloadCallback func(*Config) error

// Watcher reloads a config file when it changes and hands the new
// configuration to the registered callbacks.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	log      *zap.SugaredLogger
	debounce time.Duration

	mu        sync.RWMutex
	callbacks []ReloadCallback
	timer     *time.Timer

	ownWriteMu sync.Mutex
	ownWrite   bool

	done chan struct{}
	wg   sync.WaitGroup
}

var (
	globalWatcher   *Watcher
	globalWatcherMu sync.Mutex
)

// NewWatcher watches path. A nil log falls back to the global logger.
func NewWatcher(path string, log *zap.SugaredLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, errors.Wrapf(err, "failed to watch config file %s", path)
	}
	if log == nil {
		log = logger.ComponentLogger("config")
	}

	return &Watcher{
		path:     path,
		watcher:  fw,
		log:      log.With(logger.FieldPath, path),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period before a reload. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// OnReload registers a callback.
func (w *Watcher) OnReload(cb ReloadCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// MarkOwnWrite suppresses the reload for the next change, used when this
// process writes the file itself.
func (w *Watcher) MarkOwnWrite() {
	w.ownWriteMu.Lock()
	defer w.ownWriteMu.Unlock()
	w.ownWrite = true
}

func (w *Watcher) consumeOwnWrite() bool {
	w.ownWriteMu.Lock()
	defer w.ownWriteMu.Unlock()
	own := w.ownWrite
	w.ownWrite = false
	return own
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isBackupFile(event.Name) {
				continue
			}
			if w.consumeOwnWrite() {
				w.log.Debugw("Ignoring own write", logger.FieldFile, event.Name)
				continue
			}
			w.log.Infow("Config change detected", logger.FieldFile, event.Name, "op", event.Op.String())
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.Reload(); err != nil {
			w.log.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

// Reload loads and validates the file, then runs every callback. An invalid
// file leaves callbacks untouched. Callback errors are logged and do not stop
// the remaining callbacks.
func (w *Watcher) Reload() error {
	cfg, err := LoadFromFile(w.path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	w.log.Infow("Config reloaded", logger.FieldCount, len(cfg.Pipeline.Steps))

	w.mu.RLock()
	callbacks := append([]ReloadCallback(nil), w.callbacks...)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		if err := cb(cfg); err != nil {
			w.log.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop ends watching and waits for the loop to exit. A pending debounced
// reload is cancelled.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	select {
	case <-w.done:
	default:
		close(w.done)
	}
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back") && len(ext) == len(".back1")
}

// SetGlobalWatcher registers the watcher that Save notifies of own writes.
func SetGlobalWatcher(w *Watcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = w
}

// GetGlobalWatcher returns the registered watcher, if any.
func GetGlobalWatcher() *Watcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
