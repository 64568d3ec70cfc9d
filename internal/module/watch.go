package module

import (
	"sync"
	"time"
)

// watchIdleInterval is the idle gap between polls, matching the source's
// inotify/udev-watch runtime variant.
const watchIdleInterval = 200 * time.Millisecond

// Watch drives a producer that attaches some external watch once at Start
// (a file descriptor, an fsnotify watcher, a dbus signal subscription) and
// then polls it on a fixed idle interval rather than blocking on it
// directly, since the underlying watch API (fsnotify.Watcher, dbus signal
// channel) is itself non-blocking/channel-based and best checked on a
// timer rather than driving the goroutine's own select loop.
type Watch struct {
	*Base
	// Attach performs one-time setup (installing the underlying watch) and
	// runs before the poll loop starts.
	Attach func() error
	// Poll checks for a pending event; ok reports whether one was seen.
	// update, if ok, returns the module's rendered contents.
	Poll func() (ok bool, err error)
	Update func() (string, error)
	Idle   time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewWatch returns a Watch module with the default 200ms idle poll.
func NewWatch(name string, attach func() error, poll func() (bool, error), update func() (string, error)) *Watch {
	return &Watch{
		Base:   NewBase(name),
		Attach: attach,
		Poll:   poll,
		Update: update,
		Idle:   watchIdleInterval,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start implements Module, attaching the watch before launching the poll
// worker; an Attach failure fails the module synchronously.
func (w *Watch) Start() error {
	if w.Attach != nil {
		if err := w.Attach(); err != nil {
			w.fail(err)
			return err
		}
	}
	go w.run()
	return nil
}

func (w *Watch) run() {
	defer close(w.done)
	ticker := time.NewTicker(w.Idle)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			w.setStopped()
			return
		case <-ticker.C:
			seen, err := w.Poll()
			if err != nil {
				w.fail(err)
				return
			}
			if !seen {
				continue
			}
			out, err := w.Update()
			if err != nil {
				w.fail(err)
				return
			}
			w.publish(out)
		}
	}
}

// Stop implements Module; idempotent, and wakes the sleeping worker.
func (w *Watch) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}
