package actions

import "fmt"

// Callback is an action handler that ignores any data payload.
type Callback func()

// DataCallback is an action handler that receives the data suffix of an
// invoked action (the part after the second '.' in "#module.name.data").
type DataCallback func(data string)

type entry struct {
	withData bool
	cb       Callback
	cbData   DataCallback
}

// Router maps a single module's action names to callbacks and dispatches
// invocations from the aggregator's input-event routing. Each module owns
// exactly one Router.
type Router struct {
	entries map[string]entry
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{entries: make(map[string]entry)}
}

// RegisterAction binds name to a callback invoked with no data. It panics if
// name is already registered — a module registering the same action twice
// is a programming error, not a runtime condition to recover from.
func (r *Router) RegisterAction(name string, cb Callback) {
	r.register(name, entry{withData: false, cb: cb})
}

// RegisterActionWithData binds name to a callback that receives the data
// payload of the invoking action string. Same duplicate-registration
// behavior as RegisterAction.
func (r *Router) RegisterActionWithData(name string, cb DataCallback) {
	r.register(name, entry{withData: true, cbData: cb})
}

func (r *Router) register(name string, e entry) {
	if r.HasAction(name) {
		panic(fmt.Sprintf("action router: action %q registered twice, this is a bug", name))
	}
	r.entries[name] = e
}

// HasAction reports whether name has a registered handler.
func (r *Router) HasAction(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Invoke calls the handler registered for name with data. It panics if name
// has no registered handler — callers are expected to check HasAction (or
// route only names known to exist) before invoking.
func (r *Router) Invoke(name, data string) {
	e, ok := r.entries[name]
	if !ok {
		panic(fmt.Sprintf("action router: invoke of unregistered action %q", name))
	}
	if e.withData {
		e.cbData(data)
		return
	}
	e.cb()
}
