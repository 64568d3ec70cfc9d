// Package ipchook implements the supplemented "ipc" module: one with no
// periodic or subsystem-driven update of its own, whose entire content is
// set externally — by the legacy FIFO's "hook:name<index>" line or an
// "ACTION #name.set.<data>" IPC payload (see spec.md's IPC dispatcher
// section). It has no original_source analogue; the original project's
// hook support lives inside its IPC dispatcher rather than as a module
// type, but SPEC_FULL.md promotes it to a first-class module so the
// aggregator can route a hook to a named output slot the same way it
// routes any other producer's content.
package ipchook

import (
	"time"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Hook is an Event module whose content is pushed by calling Trigger,
// never computed on its own.
type Hook struct {
	*module.Event
	signal chan string
}

// New returns a Hook module named name, initially rendering initial.
func New(name, initial string) *Hook {
	signal := make(chan string, 1)
	current := initial
	b := builder.New(true)

	hasEvent := func(timeout time.Duration) bool {
		select {
		case v := <-signal:
			current = v
			return true
		case <-time.After(timeout):
			return false
		}
	}
	render := func() (string, error) {
		l := drawtypes.NewLabel(current)
		b.Node(l, false)
		return b.Flush(), nil
	}

	h := &Hook{Event: module.NewEvent(name, hasEvent, render), signal: signal}
	h.Router().RegisterActionWithData("set", func(data string) {
		h.Trigger(data)
	})
	h.Trigger(initial)
	return h
}

// Trigger sets the hook's content to text, waking the worker so it
// republishes on its next poll cycle (bounded by the module's Timeout,
// 25ms by default).
func (h *Hook) Trigger(text string) {
	select {
	case h.signal <- text:
	default:
		// A pending, not-yet-consumed trigger is overwritten below instead.
		select {
		case <-h.signal:
		default:
		}
		h.signal <- text
	}
}
