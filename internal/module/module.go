// Package module defines the producer contract every bar module satisfies
// (spec.md §4.7) and a handful of runtime skeletons — static, timer,
// event-loop, poll-watch, and subprocess-tail — that concrete modules under
// internal/modules embed rather than reimplementing their own goroutine
// discipline.
package module

import (
	"fmt"
	"sync"

	"github.com/polybar-go/bard/internal/actions"
)

// State is a module's lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	Errored
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Errored:
		return "error"
	default:
		return "unknown"
	}
}

// Module is the contract the aggregator drives every producer through.
type Module interface {
	Name() string
	Start() error
	Stop()
	Contents() string
	Input(action, data string) error
}

// Base implements the bookkeeping every runtime variant shares: name,
// state, the cached output string, an action router, and the on-update /
// on-stop hooks the aggregator installs before calling Start. Embed it in a
// runtime-specific struct and drive Base.publish from the worker loop.
type Base struct {
	name   string
	router *actions.Router

	mu      sync.RWMutex
	state   State
	cache   string
	lastErr error

	onUpdate func(name string)
	onStop   func(name string, err error)
}

// NewBase returns a Base in the Stopped state with an empty router.
func NewBase(name string) *Base {
	return &Base{name: name, router: actions.NewRouter(), state: Stopped}
}

// Name implements Module.
func (b *Base) Name() string { return b.name }

// Router returns the module's action router, for concrete modules to
// register handlers on during construction.
func (b *Base) Router() *actions.Router { return b.router }

// Contents implements Module.
func (b *Base) Contents() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cache
}

// State reports the module's current lifecycle state.
func (b *Base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Err returns the error that moved the module to Errored, or nil.
func (b *Base) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// OnUpdate installs the callback the aggregator is notified through
// whenever the module's cached contents change.
func (b *Base) OnUpdate(fn func(name string)) { b.onUpdate = fn }

// OnStop installs the callback invoked once when the module transitions to
// Errored or is deliberately stopped.
func (b *Base) OnStop(fn func(name string, err error)) { b.onStop = fn }

// publish overwrites the cache and, if it actually changed, notifies
// onUpdate. Returns whether the cache changed.
func (b *Base) publish(contents string) bool {
	b.mu.Lock()
	changed := contents != b.cache
	b.cache = contents
	if changed {
		b.state = Running
	}
	b.mu.Unlock()
	if changed && b.onUpdate != nil {
		b.onUpdate(b.name)
	}
	return changed
}

// fail transitions the module to Errored and notifies onStop exactly once.
func (b *Base) fail(err error) {
	b.mu.Lock()
	if b.state == Errored {
		b.mu.Unlock()
		return
	}
	b.state = Errored
	b.lastErr = err
	b.mu.Unlock()
	if b.onStop != nil {
		b.onStop(b.name, err)
	}
}

// setStopped marks the module Stopped and notifies onStop exactly once
// (state not already Errored).
func (b *Base) setStopped() {
	b.mu.Lock()
	if b.state == Errored || b.state == Stopped {
		b.mu.Unlock()
		return
	}
	b.state = Stopped
	b.mu.Unlock()
	if b.onStop != nil {
		b.onStop(b.name, nil)
	}
}

// Input implements Module by asserting the action exists and invoking it
// through the router; unregistered actions return an error rather than
// panicking, since they can legitimately arrive from stale IPC clients.
func (b *Base) Input(action, data string) error {
	if !b.router.HasAction(action) {
		return fmt.Errorf("module %q: unknown action %q", b.name, action)
	}
	b.router.Invoke(action, data)
	return nil
}
