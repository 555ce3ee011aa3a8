package install

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pluots/udf-suite/pkg/errors"
	"github.com/pluots/udf-suite/pkg/log"
)

// Watcher reruns an action whenever the shared library file is rebuilt.
type Watcher struct {
	mu sync.Mutex

	path   string
	action func(ctx context.Context) error
	logger *log.Logger

	fsWatcher *fsnotify.Watcher

	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	doneCh  chan struct{}

	// Builds write the file several times; events within debounceDelay of
	// each other trigger one action.
	debounceDelay time.Duration
	eventTimer    *time.Timer
	pending       sync.WaitGroup

	onReload func(err error)
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay. Default is 500ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDelay = d
	}
}

// WithOnReload sets a callback run after each action with its result.
func WithOnReload(fn func(err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher watches the file at path. The containing directory is watched
// so the file may be replaced by rename.
func NewWatcher(path string, action func(ctx context.Context) error, logger *log.Logger, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "create file watcher").Err()
	}
	if logger == nil {
		logger = log.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	w := &Watcher{
		path:          filepath.Clean(abs),
		action:        action,
		logger:        logger,
		fsWatcher:     fsw,
		doneCh:        make(chan struct{}),
		debounceDelay: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. The action runs until Stop or until ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrCodeConfigInvalid, "watch %s", dir).Err()
	}
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.running = true

	w.logger.Install().Info("library watcher started", "path", w.path)
	go w.processEvents()
	return nil
}

// Stop stops watching and waits for a running action to finish.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.cancel()
	if w.eventTimer != nil && w.eventTimer.Stop() {
		w.pending.Done()
	}
	w.mu.Unlock()

	<-w.doneCh
	w.pending.Wait()
	w.logger.Install().Info("library watcher stopped")
	return w.fsWatcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Install().Error("watcher error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Has(fsnotify.Remove) {
		w.logger.Install().Warn("library removed; waiting for a rebuild", "path", w.path)
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.eventTimer != nil && w.eventTimer.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	w.eventTimer = time.AfterFunc(w.debounceDelay, w.fire)
}

func (w *Watcher) fire() {
	defer w.pending.Done()
	if w.ctx.Err() != nil {
		return
	}

	w.logger.Install().Info("library changed; reinstalling", "path", w.path)
	err := w.action(w.ctx)
	if err != nil {
		w.logger.Install().Error("reinstall failed", err, "path", w.path)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
