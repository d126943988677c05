// Package watcher notifies when the savings ledger database changes on disk.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/cc-economics/internal/logger"
)

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 500 * time.Millisecond

// EventType defines the type of watcher event.
type EventType int

const (
	EventLedgerChanged EventType = iota
	EventError
)

// Event represents a watcher event.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// Watcher watches the directory holding a SQLite file and reports writes to
// the database or its WAL/journal siblings.
type Watcher struct {
	mu            sync.Mutex
	path          string
	debounce      time.Duration
	fsw           *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	stopOnce      sync.Once
	debounceTimer *time.Timer
}

// New starts watching path. The watcher stops when ctx is cancelled or Close
// is called.
func New(ctx context.Context, path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory so WAL files created later are seen too
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &Watcher{
		path:      path,
		debounce:  debounce,
		fsw:       fsw,
		eventChan: make(chan Event, 10),
		stopChan:  make(chan struct{}),
	}

	go w.loop(ctx)
	return w, nil
}

// Events returns the channel of watcher events.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// Done is closed once the watcher is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.stopChan
}

// matches reports whether name is the ledger file or one of its sidecars.
func (w *Watcher) matches(name string) bool {
	base := filepath.Base(w.path)
	got := filepath.Base(name)
	if got == base {
		return true
	}
	return strings.HasPrefix(got, base+"-")
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.debounceTimer = time.AfterFunc(w.debounce, func() {
				logger.Debug("ledger changed", "path", w.path)
				w.send(Event{Type: EventLedgerChanged, Path: w.path})
			})
			w.mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Event{Type: EventError, Path: w.path, Error: err})

		case <-ctx.Done():
			_ = w.Close()
			return

		case <-w.stopChan:
			return
		}
	}
}

// send delivers an event without blocking, dropping the oldest one when the
// channel is full.
func (w *Watcher) send(event Event) {
	select {
	case <-w.stopChan:
		return
	default:
	}

	select {
	case w.eventChan <- event:
	default:
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.fsw.Close()
	})
	return err
}
