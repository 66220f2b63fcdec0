// Package credstore owns the durable credential record for the Plume client.
package credstore

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/plumehq/plume-go/internal/telemetry/logger"
)

// DefaultDebounce is the quiet period after the last filesystem event
// before callbacks fire. An atomic replace produces a create and a
// rename in quick succession; one notification covers both.
const DefaultDebounce = 100 * time.Millisecond

// Watcher observes the credential record for external changes. It watches
// the record's parent directory rather than the file itself so that
// rename-style atomic writes (the only kind Store performs) and removals
// are both caught.
type Watcher struct {
	watcher   *fsnotify.Watcher
	path      string
	debounce  time.Duration
	callbacks []func()
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    logger.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(l logger.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets the event coalescing window.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher for the store's record. The record and even
// its directory may not exist yet; the directory is created so the watch
// can be established.
func NewWatcher(store *Store, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     store.Path(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
		logger:   logger.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	dir := filepath.Dir(w.path)
	if err := ensureDir(dir); err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		w.logger.Error("failed to watch credential directory",
			"path", dir,
			"error", err,
		)
		return nil, err
	}

	w.logger.Debug("watching credential record",
		"dir", dir,
		"file", filepath.Base(w.path),
	)
	return w, nil
}

// OnChange registers a callback invoked whenever the credential record is
// written, replaced, or removed. Callbacks run on the watcher goroutine
// and must not block.
func (w *Watcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start blocks, dispatching change notifications until Stop is called.
// Bursts of events within the debounce window collapse into a single
// notification fired after the window closes.
func (w *Watcher) Start() {
	w.logger.Debug("credential watcher started")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Debug("credential record changed",
					"op", event.Op.String(),
				)
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.notifyCallbacks()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("credential watcher error",
				"error", err,
			)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) notifyCallbacks() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb()
	}
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0o700)
}
