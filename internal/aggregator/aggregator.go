// Package aggregator implements the controller that owns every module,
// composes their output into one formatted line per alignment section, and
// routes click input back to the module that owns the clicked region
// (spec.md §4.8).
package aggregator

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/polybar-go/bard/internal/actions"
	"github.com/polybar-go/bard/internal/element"
	"github.com/polybar-go/bard/internal/format/dispatcher"
	"github.com/polybar-go/bard/internal/format/parser"
	"github.com/polybar-go/bard/internal/module"
	"github.com/polybar-go/bard/internal/settings"
	"github.com/polybar-go/bard/internal/throttle"
)

const (
	composeLockTimeout = 50 * time.Millisecond
	doubleClickWindow  = 250 * time.Millisecond
	moduleStartStagger = 25 * time.Millisecond
)

var alignOrder = [3]element.Alignment{element.AlignLeft, element.AlignCenter, element.AlignRight}

// updatePublisher is satisfied by *module.Base; asserted against each
// registered Module so the aggregator can subscribe to its update/stop
// notifications without module.Module itself exposing them.
type updatePublisher interface {
	OnUpdate(func(name string))
	OnStop(func(name string, err error))
}

type stateful interface {
	State() module.State
}

// Aggregator owns the modules assigned to each alignment section, composes
// their contents into one formatted frame on every update, and dispatches
// input events to the module behind the clicked region.
type Aggregator struct {
	bar        settings.BarSettings
	dispatch   *dispatcher.Dispatcher
	renderer   dispatcher.Renderer
	throttle   *throttle.Throttle
	composeMtx trylock

	modulesMu sync.RWMutex
	modules   map[element.Alignment][]module.Module

	ctxMu     sync.RWMutex
	actionCtx *actions.Context

	pendingMu sync.Mutex
	pending   map[actions.ID]*time.Timer

	// Translator converts a raw (x, y) input event into a bar-relative
	// pixel offset. A nil Translator treats x as already bar-relative,
	// which is sufficient for the stdout/demo renderer.
	Translator interface {
		TranslateX(x, y int) int
	}

	// OnCompose receives the composed format string after every
	// successful render pass (the hook a renderer or stdout sink
	// subscribes through).
	OnCompose func(contents string)
	// OnParseError receives any parse errors produced while re-parsing
	// the composed string.
	OnParseError func(error)
	// OnModuleError receives a module's Start error.
	OnModuleError func(name string, err error)
	// ShellExec executes a legacy, non "#module.action" inline command.
	// It is nil by default; callers wire a real shell executor.
	ShellExec func(cmd string) error
	// OnAllStopped fires once every registered module has left the
	// Running state.
	OnAllStopped func()
}

// New returns an Aggregator bound to bar, rendering through renderer, and
// replaying composed frames through a dispatcher configured with defaults.
func New(bar settings.BarSettings, renderer dispatcher.Renderer, defaults dispatcher.Defaults, onError func(error)) *Aggregator {
	return &Aggregator{
		bar:        bar,
		dispatch:   dispatcher.New(defaults, onError),
		renderer:   renderer,
		throttle:   throttle.New(throttle.DefaultLimit, throttle.DefaultWindow),
		composeMtx: newTrylock(),
		modules:    make(map[element.Alignment][]module.Module),
		pending:    make(map[actions.ID]*time.Timer),
	}
}

// AddModule registers m under align. If m exposes the update/stop
// publisher methods (every *module.Base-backed module does), the
// aggregator subscribes to them.
func (a *Aggregator) AddModule(align element.Alignment, m module.Module) {
	a.modulesMu.Lock()
	a.modules[align] = append(a.modules[align], m)
	a.modulesMu.Unlock()

	if pub, ok := m.(updatePublisher); ok {
		pub.OnUpdate(func(name string) { a.onModuleUpdate() })
		pub.OnStop(func(name string, err error) { a.onModuleStop() })
	}
}

// Start launches every registered module, staggering each Start call so
// the initial broadcasts don't all land within one throttle window.
func (a *Aggregator) Start() {
	a.modulesMu.RLock()
	defer a.modulesMu.RUnlock()
	for _, align := range alignOrder {
		for _, m := range a.modules[align] {
			if err := m.Start(); err != nil && a.OnModuleError != nil {
				a.OnModuleError(m.Name(), err)
			}
			time.Sleep(moduleStartStagger)
		}
	}
}

// Stop stops every registered module.
func (a *Aggregator) Stop() {
	a.modulesMu.RLock()
	defer a.modulesMu.RUnlock()
	for _, align := range alignOrder {
		for _, m := range a.modules[align] {
			m.Stop()
		}
	}
}

// onModuleUpdate is the callback every module's Base.onUpdate funnels
// into. On lock contention it waits at most composeLockTimeout and then
// gives up rather than queuing, and it is throttled by the shared
// sliding-window limiter.
func (a *Aggregator) onModuleUpdate() {
	if !a.composeMtx.TryLock(composeLockTimeout) {
		return
	}
	defer a.composeMtx.Unlock()

	if !a.throttle.TryPass(time.Now()) {
		return
	}
	a.compose()
}

// onModuleStop runs on every module's terminal transition; once no module
// is Running, it fires OnAllStopped.
func (a *Aggregator) onModuleStop() {
	if !a.composeMtx.TryLock(composeLockTimeout) {
		return
	}
	defer a.composeMtx.Unlock()

	a.modulesMu.RLock()
	anyRunning := false
	for _, align := range alignOrder {
		for _, m := range a.modules[align] {
			if sf, ok := m.(stateful); ok && sf.State() == module.Running {
				anyRunning = true
				break
			}
		}
	}
	a.modulesMu.RUnlock()

	if !anyRunning && a.OnAllStopped != nil {
		a.OnAllStopped()
	}
}

// compose concatenates every alignment section's module contents,
// collapses redundant attribute tags, wraps the result with %{l}/%{c}/%{r},
// and hands it to the dispatcher. Caller must hold composeMtx.
func (a *Aggregator) compose() {
	a.modulesMu.RLock()
	defer a.modulesMu.RUnlock()

	var out strings.Builder
	for _, align := range alignOrder {
		mods := a.modules[align]
		block := a.composeBlock(align, mods)
		if block == "" {
			continue
		}
		switch align {
		case element.AlignLeft:
			out.WriteString("%{l}")
			out.WriteString(strings.Repeat(" ", a.bar.PaddingLeft))
		case element.AlignCenter:
			out.WriteString("%{c}")
		case element.AlignRight:
			out.WriteString("%{r}")
		}
		out.WriteString(block)
	}

	a.render(out.String())
}

func (a *Aggregator) composeBlock(align element.Alignment, mods []module.Module) string {
	var b strings.Builder
	for i, m := range mods {
		content := m.Contents()
		if content == "" {
			continue
		}
		if b.Len() > 0 && a.bar.Separator != "" {
			b.WriteString(a.bar.Separator)
		}
		if !(align == element.AlignLeft && i == 0) {
			b.WriteString(strings.Repeat(" ", a.bar.ModuleMarginLeft))
		}
		b.WriteString(content)
		if !(align == element.AlignRight && i == len(mods)-1) {
			b.WriteString(strings.Repeat(" ", a.bar.ModuleMarginRight))
		}
	}
	if b.Len() == 0 {
		return ""
	}
	if align == element.AlignRight {
		b.WriteString(strings.Repeat(" ", a.bar.PaddingRight))
	}
	return collapseAdjacentTags(b.String())
}

// collapseAdjacentTags is the peephole pass over one alignment section's
// serialized tags: a close immediately followed by a reopen of the same
// attribute kind collapses to just the reopen, and adjacent closing/opening
// braces across compatible tag groups collapse to a single space.
func collapseAdjacentTags(s string) string {
	s = strings.ReplaceAll(s, "B-}%{B#", "B#")
	s = strings.ReplaceAll(s, "F-}%{F#", "F#")
	s = strings.ReplaceAll(s, "T-}%{T", "T")
	return strings.ReplaceAll(s, "}%{", " ")
}

// render re-parses the composed string, replays it through the dispatcher
// to build the frame's ActionContext, and notifies OnCompose.
func (a *Aggregator) render(composite string) {
	elems, errs := parser.ParseString(composite)
	if a.OnParseError != nil {
		for _, err := range errs {
			a.OnParseError(err)
		}
	}

	ctx := a.dispatch.Run(elems, element.AlignLeft, a.renderer)

	a.ctxMu.Lock()
	a.actionCtx = ctx
	a.ctxMu.Unlock()

	if a.OnCompose != nil {
		a.OnCompose(composite)
	}
}

// doubleVariant maps a plain click button to its double-click counterpart,
// or ButtonNone if btn has none.
func doubleVariant(btn element.MouseButton) element.MouseButton {
	switch btn {
	case element.ButtonLeft:
		return element.ButtonDoubleLeft
	case element.ButtonMiddle:
		return element.ButtonDoubleMiddle
	case element.ButtonRight:
		return element.ButtonDoubleRight
	default:
		return element.ButtonNone
	}
}

// HandleInput translates a raw (x, y, button) input event into a module
// action invocation (or a legacy shell command), matching spec.md §4.8's
// click-routing description, including the double-click debounce: a single
// click on a region that also has a double-click handler is held for
// doubleClickWindow and only forwarded if no second click arrives in time.
func (a *Aggregator) HandleInput(x, y int, btn element.MouseButton) error {
	px := x
	if a.Translator != nil {
		px = a.Translator.TranslateX(x, y)
	}

	a.ctxMu.RLock()
	ctx := a.actionCtx
	a.ctxMu.RUnlock()
	if ctx == nil {
		return nil
	}

	if dv := doubleVariant(btn); dv != element.ButtonNone {
		if dblID := ctx.HasAction(dv, px); dblID != actions.NoAction {
			return a.holdOrFireDouble(ctx, px, btn, dblID)
		}
	}
	return a.fireAt(ctx, px, btn)
}

func (a *Aggregator) holdOrFireDouble(ctx *actions.Context, px int, single element.MouseButton, doubleID actions.ID) error {
	a.pendingMu.Lock()
	if timer, ok := a.pending[doubleID]; ok {
		timer.Stop()
		delete(a.pending, doubleID)
		a.pendingMu.Unlock()
		return a.invokeRegion(ctx, doubleID)
	}

	timer := time.AfterFunc(doubleClickWindow, func() {
		a.pendingMu.Lock()
		delete(a.pending, doubleID)
		a.pendingMu.Unlock()
		a.fireAt(ctx, px, single)
	})
	a.pending[doubleID] = timer
	a.pendingMu.Unlock()
	return nil
}

func (a *Aggregator) fireAt(ctx *actions.Context, px int, btn element.MouseButton) error {
	id := ctx.HasAction(btn, px)
	if id == actions.NoAction {
		return nil
	}
	return a.invokeRegion(ctx, id)
}

// Dispatch invokes a "#module.action[.data]" reference directly, without
// going through pixel-based click routing. This is the path an IPC-
// delivered ACTION message takes (spec.md §6): unlike HandleInput, no
// click region needs to have been open in the last composed frame.
func (a *Aggregator) Dispatch(ref string) error {
	if !strings.HasPrefix(ref, "#") {
		if a.ShellExec != nil {
			return a.ShellExec(ref)
		}
		return nil
	}
	modName, action, data, err := parseActionRef(ref)
	if err != nil {
		return err
	}
	m := a.findModule(modName)
	if m == nil {
		return fmt.Errorf("aggregator: unknown module %q in action %q", modName, ref)
	}
	return m.Input(action, data)
}

func (a *Aggregator) invokeRegion(ctx *actions.Context, id actions.ID) error {
	cmd := ctx.GetAction(id)
	if !strings.HasPrefix(cmd, "#") {
		if a.ShellExec != nil {
			return a.ShellExec(cmd)
		}
		return nil
	}

	modName, action, data, err := parseActionRef(cmd)
	if err != nil {
		return err
	}
	m := a.findModule(modName)
	if m == nil {
		return fmt.Errorf("aggregator: unknown module %q in action %q", modName, cmd)
	}
	return m.Input(action, data)
}

func (a *Aggregator) findModule(name string) module.Module {
	a.modulesMu.RLock()
	defer a.modulesMu.RUnlock()
	for _, align := range alignOrder {
		for _, m := range a.modules[align] {
			if m.Name() == name {
				return m
			}
		}
	}
	return nil
}

// parseActionRef splits a "#module.action[.data]" reference. data may
// itself contain dots, per spec.md §6's action identifier grammar.
func parseActionRef(ref string) (mod, action, data string, err error) {
	if !strings.HasPrefix(ref, "#") {
		return "", "", "", fmt.Errorf("aggregator: not an action reference: %q", ref)
	}
	parts := strings.Split(ref[1:], ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("aggregator: malformed action reference %q", ref)
	}
	mod, action = parts[0], parts[1]
	if len(parts) > 2 {
		data = strings.Join(parts[2:], ".")
	}
	return mod, action, data, nil
}
