// Package watch signals when a data file changes on disk.
//
// The parent directory is watched rather than the file itself, because
// atomic saves replace the file by rename and a watch on the old inode
// would go quiet.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to one file.
type Watcher struct {
	file      string
	watcher   *fsnotify.Watcher
	debouncer *ChangeDebouncer
	events    chan struct{}
	logger    *slog.Logger
}

// New starts watching path's directory. Changes to path are delivered on
// Events once Run is called.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		file:    abs,
		watcher: watcher,
		events:  make(chan struct{}, 1),
		logger:  slog.Default(),
	}
	w.debouncer = NewChangeDebouncer(debounce, w.notify)
	return w, nil
}

// WithLogger sets the logger for watch errors.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	if l != nil {
		w.logger = l
	}
	return w
}

// Events delivers one signal per debounced burst of changes. Signals are
// coalesced when the reader falls behind. The channel is closed when Run
// returns.
func (w *Watcher) Events() <-chan struct{} { return w.events }

// Run processes filesystem events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)
	defer w.debouncer.Stop()
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "file", w.file, "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.file {
		return
	}
	// Permission changes do not alter content.
	if event.Op == fsnotify.Chmod {
		return
	}
	w.debouncer.Add()
}

// notify runs on the debouncer's timer goroutine.
func (w *Watcher) notify() {
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// ChangeDebouncer batches rapid changes into one flush.
type ChangeDebouncer struct {
	timer   *time.Timer
	mu      sync.Mutex
	onFlush func()
	delay   time.Duration
	stopped bool
}

// NewChangeDebouncer creates a debouncer that calls onFlush once delay has
// passed without a new change.
func NewChangeDebouncer(delay time.Duration, onFlush func()) *ChangeDebouncer {
	return &ChangeDebouncer{
		onFlush: onFlush,
		delay:   delay,
	}
}

// Add records a change and restarts the quiet period.
func (d *ChangeDebouncer) Add() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

// flush holds the lock while calling onFlush so it cannot run after Stop
// returns; onFlush must not block.
func (d *ChangeDebouncer) flush() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.stopped && d.onFlush != nil {
		d.onFlush()
	}
}

// Stop cancels any pending flush.
func (d *ChangeDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
