// Package dispatcher replays a parsed element stream into a Renderer
// capability, tracking the color/attribute/font/offset/alignment state the
// parser's tags mutate and building the ActionContext for the frame
// (spec.md §4.2).
package dispatcher

import (
	"fmt"
	"strings"

	"github.com/polybar-go/bard/internal/actions"
	"github.com/polybar-go/bard/internal/element"
)

// Renderer is the capability the dispatcher drives. Implementations live
// outside the core (a native X11/XCB window, a terminal/stdout renderer for
// the demo daemon, a test double).
type Renderer interface {
	RenderText(ctx *Context, text string)
	RenderOffset(ctx *Context, pixels int)
	ChangeAlignment(ctx *Context)
	GetX(ctx *Context) float64
	GetAlignmentStart(align element.Alignment) float64
}

// Defaults are the bar-wide fallback colors substituted for a Reset color
// tag, mirroring bar_settings in the original source.
type Defaults struct {
	Foreground element.Color
	Background element.Color
	Underline  element.Color
	Overline   element.Color
}

// Context is the state a Renderer reads back while rendering one frame:
// current resolved colors/attributes/font plus which alignment section is
// active. The dispatcher owns the only writable copy; renderers must treat
// it as read-only.
type Context struct {
	Alignment  element.Alignment
	Foreground element.Color
	Background element.Color
	Underline  element.Color
	Overline   element.Color
	Font       uint32
	Attrs      element.Attribute
	Reversed   bool
}

// Dispatcher replays one frame's elements against a Renderer.
type Dispatcher struct {
	defaults Defaults
	onError  func(error)
}

// New returns a Dispatcher using defaults as the bar's reset-color fallback.
// onError, if non-nil, receives non-fatal errors (unmatched action closes,
// and actions still open at the end of the frame); it may be nil to
// discard them.
func New(defaults Defaults, onError func(error)) *Dispatcher {
	if onError == nil {
		onError = func(error) {}
	}
	return &Dispatcher{defaults: defaults, onError: onError}
}

// Run replays elems into r, building and returning the
// actions.Context for the frame. startAlign is the alignment section this line
// belongs to (Left/Center/Right); the dispatcher starts in that section and
// honors any %{l}/%{c}/%{r} tags encountered within elems (the aggregator
// normally wraps each composed section so these are only seen at section
// boundaries, but a module's own output may also legally change alignment).
func (d *Dispatcher) Run(elems []element.Element, startAlign element.Alignment, r Renderer) *actions.Context {
	ctxt := actions.NewContext()
	ctx := &Context{
		Alignment:  startAlign,
		Foreground: d.defaults.Foreground,
		Background: d.defaults.Background,
		Underline:  d.defaults.Underline,
		Overline:   d.defaults.Overline,
	}

	var openActions []struct {
		id  actions.ID
		btn element.MouseButton
	}

	for _, el := range elems {
		if el.Kind == element.ElementText {
			r.RenderText(ctx, trimControlChars(el.Text))
			continue
		}

		tag := el.Tag
		switch tag.Kind {
		case element.TagSetFg:
			ctx.Foreground = resolveColor(tag.Color, d.defaults.Foreground)
		case element.TagSetBg:
			ctx.Background = resolveColor(tag.Color, d.defaults.Background)
		case element.TagSetUl:
			ctx.Underline = resolveColor(tag.Color, d.defaults.Underline)
		case element.TagSetOl:
			ctx.Overline = resolveColor(tag.Color, d.defaults.Overline)
		case element.TagSetFont:
			ctx.Font = tag.Font
		case element.TagOffset:
			r.RenderOffset(ctx, tag.Offset.Pixels(96))
		case element.TagReverse:
			ctx.Reversed = !ctx.Reversed
		case element.TagAlignment:
			ctx.Alignment = tag.Alignment
			r.ChangeAlignment(ctx)
		case element.TagAttr:
			ctx.Attrs = tag.Act.Apply(ctx.Attrs, tag.Attr)
		case element.TagControl:
			d.resetControl(ctx)
		case element.TagActionOpen:
			id := ctxt.Open(tag.Button, tag.Command, ctx.Alignment)
			ctxt.SetStart(id, int(r.GetX(ctx)))
			openActions = append(openActions, struct {
				id  actions.ID
				btn element.MouseButton
			}{id, tag.Button})
		case element.TagActionClose:
			id, _ := ctxt.Close(tag.CloseButton, ctx.Alignment)
			if id == actions.NoAction {
				d.onError(fmt.Errorf("dispatcher: closing action tag without matching open tag"))
				continue
			}
			ctxt.SetEnd(id, int(r.GetX(ctx)))
			for i, o := range openActions {
				if o.id == id {
					openActions = append(openActions[:i], openActions[i+1:]...)
					break
				}
			}
		}
	}

	if len(openActions) > 0 {
		d.onError(fmt.Errorf("dispatcher: %d unclosed action block(s)", len(openActions)))
	}

	return ctxt
}

// resetControl restores dispatcher state to the bar defaults. Only PR
// (reset-all) is defined today.
func (d *Dispatcher) resetControl(ctx *Context) {
	ctx.Foreground = d.defaults.Foreground
	ctx.Background = d.defaults.Background
	ctx.Underline = d.defaults.Underline
	ctx.Overline = d.defaults.Overline
	ctx.Font = 0
	ctx.Attrs = 0
	ctx.Reversed = false
}

func resolveColor(c, fallback element.Color) element.Color {
	if !c.IsSet() {
		return fallback
	}
	return c
}

// trimChars are the invisible formatting characters stripped from text
// elements: soft hyphen, LTR/RTL marks, and the bidi embedding/override
// controls. Ordinary whitespace is never touched.
var trimChars = []rune{
	'\u00ad', // soft hyphen
	'‎', // left-to-right mark
	'‏', // right-to-left mark
	'‪', // left-to-right embedding
	'‫', // right-to-left embedding
	'‬', // pop directional formatting
	'‭', // left-to-right override
	'‮', // right-to-left override
}

func trimControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		skip := false
		for _, c := range trimChars {
			if r == c {
				skip = true
				break
			}
		}
		if !skip {
			b.WriteRune(r)
		}
	}
	return b.String()
}
