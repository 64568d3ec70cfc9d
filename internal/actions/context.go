// Package actions implements the click-routing halves of the format
// pipeline: a Context that tracks nested clickable regions as the
// dispatcher lays out a formatted line, and a Router that each
// module uses to map named actions to callbacks (spec.md §4.2/§4.5).
package actions

import (
	"sync"

	"github.com/polybar-go/bard/internal/element"
)

// ID identifies one open-or-closed action region. NoAction is never a
// valid id.
type ID int

// NoAction is returned by Open on failure and never appears as a live id.
const NoAction ID = -1

type region struct {
	id        ID
	button    element.MouseButton
	alignment element.Alignment
	command   string
	start     int
	end       int
	closed    bool
}

// Context tracks the clickable regions produced while one formatted line is
// laid out. Regions nest like parentheses: Close matches the innermost
// still-open region for the given alignment, optionally constrained to a
// specific button. Every method takes an internal mutex, so a Context may be
// read by input handlers while the dispatcher that owns it is writing.
type Context struct {
	mu         sync.Mutex
	regions    []*region
	nextID     ID
	doubleSeen bool
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{nextID: 1}
}

// Reset clears all tracked regions so the Context can be reused for the
// next render pass.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions = nil
	c.nextID = 1
	c.doubleSeen = false
}

// Open registers the start of a new clickable region and returns its id.
func (c *Context) Open(btn element.MouseButton, command string, align element.Alignment) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.regions = append(c.regions, &region{
		id:        id,
		button:    btn,
		alignment: align,
		command:   command,
	})
	return id
}

// Close matches the innermost open, unclosed region for align. If btn is
// ButtonNone, any button matches; otherwise only a region opened with that
// exact button matches. It returns the matched id and the button the region
// was opened with, or (NoAction, ButtonNone) if nothing matched. Closing a
// region opened with a double-click button sets HasDoubleClick.
func (c *Context) Close(btn element.MouseButton, align element.Alignment) (ID, element.MouseButton) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.regions) - 1; i >= 0; i-- {
		r := c.regions[i]
		if r.closed || r.alignment != align {
			continue
		}
		if btn != element.ButtonNone && r.button != btn {
			continue
		}
		r.closed = true
		if r.button.IsDouble() {
			c.doubleSeen = true
		}
		return r.id, r.button
	}
	return NoAction, element.ButtonNone
}

// SetStart records the pixel x-coordinate where a region's clickable span
// begins.
func (c *Context) SetStart(id ID, x int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.find(id); r != nil {
		r.start = x
	}
}

// SetEnd records the pixel x-coordinate where a region's clickable span
// ends.
func (c *Context) SetEnd(id ID, x int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.find(id); r != nil {
		r.end = x
	}
}

func (c *Context) find(id ID) *region {
	for _, r := range c.regions {
		if r.id == id {
			return r
		}
	}
	return nil
}

// GetAction returns the command string stored for id.
func (c *Context) GetAction(id ID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.find(id); r != nil {
		return r.command
	}
	return ""
}

// HasAction returns the id of the innermost region for btn whose span
// contains pixel x, or NoAction if none does. Innermost means: among all
// candidate regions containing x, the one with the smallest span.
func (c *Context) HasAction(btn element.MouseButton, x int) ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	best := (*region)(nil)
	for _, r := range c.regions {
		if !r.closed || r.button != btn {
			continue
		}
		if x < r.start || x >= r.end {
			continue
		}
		if best == nil || (r.end-r.start) < (best.end-best.start) {
			best = r
		}
	}
	if best == nil {
		return NoAction
	}
	return best.id
}

// GetActions returns, for every button with a region covering pixel x, the
// innermost (smallest span) matching region's id.
func (c *Context) GetActions(x int) map[element.MouseButton]ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[element.MouseButton]ID)
	best := make(map[element.MouseButton]*region)
	for _, r := range c.regions {
		if !r.closed || x < r.start || x >= r.end {
			continue
		}
		cur, ok := best[r.button]
		if !ok || (r.end-r.start) < (cur.end-cur.start) {
			best[r.button] = r
		}
	}
	for btn, r := range best {
		out[btn] = r.id
	}
	return out
}

// NumActions returns the total number of regions ever opened in this pass.
func (c *Context) NumActions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.regions)
}

// HasDoubleClick reports whether any region closed so far was opened with a
// double-click button variant.
func (c *Context) HasDoubleClick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doubleSeen
}
