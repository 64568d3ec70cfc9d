package module

import (
	"sync"
	"time"
)

// Timer polls Update at a fixed interval, publishing whatever it returns.
// Sleep is interruptible: Stop wakes a sleeping worker immediately instead
// of waiting out the remainder of the interval.
type Timer struct {
	*Base
	Interval time.Duration
	Update   func() (string, error)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

// NewTimer returns a Timer module that calls update every interval.
func NewTimer(name string, interval time.Duration, update func() (string, error)) *Timer {
	return &Timer{
		Base:     NewBase(name),
		Interval: interval,
		Update:   update,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start implements Module, launching the worker goroutine.
func (t *Timer) Start() error {
	go t.run()
	return nil
}

func (t *Timer) run() {
	defer close(t.done)
	timer := time.NewTimer(0) // fire immediately for the first reading
	defer timer.Stop()
	for {
		select {
		case <-t.stopCh:
			t.setStopped()
			return
		case <-timer.C:
			out, err := t.Update()
			if err != nil {
				t.fail(err)
				return
			}
			t.publish(out)
			timer.Reset(t.Interval)
		}
	}
}

// Stop implements Module; idempotent, and wakes the sleeping worker.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stopCh) })
	<-t.done
}
