package module

import (
	"sync"
	"time"
)

// defaultEventTimeout bounds how long a single HasEvent call may block, so
// the worker notices Stop within one iteration even if no event arrives.
const defaultEventTimeout = 25 * time.Millisecond

// Event drives a producer whose readiness is signaled by a blocking,
// timeout-bounded poll (e.g. a netlink socket read with a read deadline)
// rather than a fixed clock.
type Event struct {
	*Base
	// HasEvent blocks for up to timeout waiting for an event and reports
	// whether one arrived.
	HasEvent func(timeout time.Duration) bool
	Update   func() (string, error)
	Timeout  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewEvent returns an Event module with the default 25ms poll timeout.
func NewEvent(name string, hasEvent func(time.Duration) bool, update func() (string, error)) *Event {
	return &Event{
		Base:     NewBase(name),
		HasEvent: hasEvent,
		Update:   update,
		Timeout:  defaultEventTimeout,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start implements Module.
func (e *Event) Start() error {
	go e.run()
	return nil
}

func (e *Event) run() {
	defer close(e.done)
	for {
		select {
		case <-e.stopCh:
			e.setStopped()
			return
		default:
		}

		if e.HasEvent(e.Timeout) {
			out, err := e.Update()
			if err != nil {
				e.fail(err)
				return
			}
			e.publish(out)
		}
	}
}

// Stop implements Module; idempotent, and returns once the worker has
// observed it (within one HasEvent timeout).
func (e *Event) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	<-e.done
}
