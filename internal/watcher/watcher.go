// Package watcher reports changes to the outline file being shown so the UI can re-import it.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"altflow/internal/debug"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrStopped        = errors.New("watcher stopped")
)

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnError sets the callback for watch errors. It runs on the watcher goroutine.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// Watcher monitors a single file. It watches the parent directory so that atomic saves
// (write temp file, rename over) are seen as changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	timer   *time.Timer
	done    chan struct{}
	started bool

	changeCh chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onError:  func(error) {},
		changeCh: make(chan struct{}, 1),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Watcher) Path() string {
	return w.path
}

// Changed receives once per debounced change burst.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Stopped is closed by Stop. Receivers of Changed select on it to exit.
func (w *Watcher) Stopped() <-chan struct{} {
	return w.stopped
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}
	select {
	case <-w.stopped:
		return ErrStopped
	default:
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})
	w.started = true
	go w.loop(fsw, w.done)
	debug.Log("watching %s", w.path)
	return nil
}

// Stop ends the watch for good and closes Stopped. Changed stays open.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopped) })
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	close(w.done)
	_ = w.fsw.Close()
	w.fsw = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.started = false
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done <-chan struct{}) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()
	if !started {
		return
	}
	debug.Log("changed %s", w.path)
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
