// Package builder implements the inverse of the format parser: a module's
// rendering helpers append typed nodes (labels, ramps, progress bars, plain
// text, offsets, action regions) to an internal buffer as format-string
// escapes, and Flush drains the buffer for the aggregator to pick up.
package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/element"
)

// defaultSpacing tells Space to fall back to the bar's configured spacing
// rather than a caller-supplied width.
const defaultSpacing = -1

// Builder accumulates format-string escapes for a single module. It is not
// safe for concurrent use; every module owns one and calls into it from its
// own update goroutine only.
type Builder struct {
	sb strings.Builder

	// lazyClosing keeps paired color/font/attribute tags open across
	// successive node() calls instead of closing and reopening them on
	// every call, and only forces them shut when Flush runs or a caller
	// explicitly asks for it. This mirrors the source's default behavior
	// and cuts the format string roughly in half for runs of same-colored
	// labels.
	lazyClosing bool

	fgOpen, bgOpen, ulOpen, olOpen, fontOpen bool
	fgColor, bgColor, ulColor, olColor       element.Color
	fontIndex                                uint32

	spacing int // bar-wide default for Space(defaultSpacing); 0 until SetSpacing

	openActions int // depth of unclosed %{A...} regions, for a sanity Flush check
}

// New returns a ready Builder. lazyClosing is true for every shipped
// module; pass false only for one-shot renders where every tag must be
// self-contained (e.g. a single legacy inline command).
func New(lazyClosing bool) *Builder {
	return &Builder{lazyClosing: lazyClosing}
}

// SetSpacing installs the bar-wide default used by Space(defaultSpacing).
func (b *Builder) SetSpacing(width int) { b.spacing = width }

// Flush closes any tags still open, returns the accumulated format string,
// and resets the buffer for the next render.
func (b *Builder) Flush() string {
	b.closeAll(true)
	out := b.sb.String()
	b.sb.Reset()
	return out
}

// Append writes raw, already-escaped format text directly to the buffer.
func (b *Builder) Append(s string) {
	b.sb.WriteString(s)
}

// Space appends width spaces, or the bar's default spacing when width is
// defaultSpacing (or omitted).
func (b *Builder) Space(width ...int) {
	w := b.spacing
	if len(width) > 0 && width[0] != defaultSpacing {
		w = width[0]
	}
	if w > 0 {
		b.sb.WriteString(strings.Repeat(" ", w))
	}
}

// Offset appends an %{O<pixels>} tag.
func (b *Builder) Offset(pixels int) {
	fmt.Fprintf(&b.sb, "%%{O%d}", pixels)
}

// Font opens (or switches) the active font index.
func (b *Builder) Font(index uint32) {
	if b.fontOpen && b.fontIndex == index {
		return
	}
	fmt.Fprintf(&b.sb, "%%{T%d}", index)
	b.fontOpen = true
	b.fontIndex = index
}

// FontClose resets the font to the bar default. force emits the tag even if
// lazy-closing would otherwise defer it.
func (b *Builder) FontClose(force bool) {
	if !b.fontOpen {
		return
	}
	if b.lazyClosing && !force {
		return
	}
	b.sb.WriteString("%{T-}")
	b.fontOpen = false
}

// Background opens (or switches) the active background color.
func (b *Builder) Background(color element.Color) {
	if b.bgOpen && b.bgColor == color {
		return
	}
	fmt.Fprintf(&b.sb, "%%{B%s}", color.String())
	b.bgOpen = color.IsSet()
	b.bgColor = color
}

// BackgroundClose resets the background to the bar default.
func (b *Builder) BackgroundClose(force bool) {
	if !b.bgOpen {
		return
	}
	if b.lazyClosing && !force {
		return
	}
	b.sb.WriteString("%{B-}")
	b.bgOpen = false
}

// Color opens (or switches) the active foreground color.
func (b *Builder) Color(color element.Color) {
	if b.fgOpen && b.fgColor == color {
		return
	}
	fmt.Fprintf(&b.sb, "%%{F%s}", color.String())
	b.fgOpen = color.IsSet()
	b.fgColor = color
}

// ColorClose resets the foreground to the bar default.
func (b *Builder) ColorClose(force bool) {
	if !b.fgOpen {
		return
	}
	if b.lazyClosing && !force {
		return
	}
	b.sb.WriteString("%{F-}")
	b.fgOpen = false
}

// Underline opens (or switches) the underline color.
func (b *Builder) Underline(color element.Color) {
	if b.ulOpen && b.ulColor == color {
		return
	}
	fmt.Fprintf(&b.sb, "%%{u%s}", color.String())
	b.ulOpen = color.IsSet()
	b.ulColor = color
}

// UnderlineClose resets the underline color.
func (b *Builder) UnderlineClose(force bool) {
	if !b.ulOpen {
		return
	}
	if b.lazyClosing && !force {
		return
	}
	b.sb.WriteString("%{u-}")
	b.ulOpen = false
}

// Overline opens (or switches) the overline color.
func (b *Builder) Overline(color element.Color) {
	if b.olOpen && b.olColor == color {
		return
	}
	fmt.Fprintf(&b.sb, "%%{o%s}", color.String())
	b.olOpen = color.IsSet()
	b.olColor = color
}

// OverlineClose resets the overline color.
func (b *Builder) OverlineClose(force bool) {
	if !b.olOpen {
		return
	}
	if b.lazyClosing && !force {
		return
	}
	b.sb.WriteString("%{o-}")
	b.olOpen = false
}

func (b *Builder) closeAll(force bool) {
	b.ColorClose(force)
	b.BackgroundClose(force)
	b.UnderlineClose(force)
	b.OverlineClose(force)
	b.FontClose(force)
}

// Node expands label to its attributed text: font, background, foreground,
// underline and overline tags (each only emitted if label sets a value, and
// left open per the builder's lazy-closing policy), then left margin, left
// padding, text, right padding and right margin. addSpace appends a
// trailing Space() once the node is fully written.
func (b *Builder) Node(label *drawtypes.Label, addSpace bool) {
	if label == nil || !label.IsSet() {
		return
	}

	if label.Font != 0 {
		b.Font(label.Font)
	}
	if label.Background.IsSet() {
		b.Background(label.Background)
	}
	if label.Foreground.IsSet() {
		b.Color(label.Foreground)
	}
	if label.Underline.IsSet() {
		b.Underline(label.Underline)
	}
	if label.Overline.IsSet() {
		b.Overline(label.Overline)
	}

	b.pad(label.Margin.Left)
	b.pad(label.Padding.Left)
	b.sb.WriteString(label.GetText())
	b.pad(label.Padding.Right)
	b.pad(label.Margin.Right)

	if !b.lazyClosing {
		b.closeAll(true)
	}
	if addSpace {
		b.Space()
	}
}

func (b *Builder) pad(width int) {
	if width > 0 {
		b.sb.WriteString(strings.Repeat(" ", width))
	}
}

// NodeRamp picks ramp's frame for percentage and writes it as a node.
func (b *Builder) NodeRamp(ramp *drawtypes.Ramp, percentage float64, addSpace bool) {
	if ramp == nil || ramp.Len() == 0 {
		return
	}
	b.Node(ramp.GetByPercentage(percentage), addSpace)
}

// NodeBar expands a progress bar at percentage as plain, unattributed text.
// No color tags are written: a palette installed with SetColors only
// changes bar.Fill.Foreground, which this method does not emit.
func (b *Builder) NodeBar(bar *drawtypes.ProgressBar, percentage float64, addSpace bool) {
	if bar == nil {
		return
	}
	b.sb.WriteString(bar.Output(percentage))
	if addSpace {
		b.Space()
	}
}

// Action opens an action region: clicking btn over the enclosed text
// invokes the named action on module, with an optional data payload. A
// matching CmdClose must follow once the enclosed content has been
// written.
func (b *Builder) Action(btn element.MouseButton, module, name, data string) {
	ref := "#" + module + "." + name
	if data != "" {
		ref += "." + data
	}
	n := int(btn)
	if n < 1 || n > 8 {
		n = 1
	}
	fmt.Fprintf(&b.sb, "%%{A%s:%s:}", strconv.Itoa(n), escapeActionCmd(ref))
	b.openActions++
}

// CmdClose closes the innermost open action region, matching any button.
func (b *Builder) CmdClose() {
	if b.openActions == 0 {
		return
	}
	b.sb.WriteString("%{A}")
	b.openActions--
}

// escapeActionCmd backslash-escapes literal colons so the parser's
// cmd-terminator scan does not stop early.
func escapeActionCmd(cmd string) string {
	return strings.ReplaceAll(cmd, ":", `\:`)
}
