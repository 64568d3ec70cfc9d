// Package clock implements the date/time producer, grounded on the
// original's date_module: a timer_module that formats the current time
// through a primary and an alternate layout, toggled by clicking the
// module (see _examples/original_source/include/modules/date.hpp, whose
// EVENT_TOGGLE action and m_toggled flag this mirrors).
package clock

import (
	"time"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Clock is a module.Timer specialized to render the current time through
// one of two alternating Go time layouts.
type Clock struct {
	*module.Timer
}

// New returns a Clock named name, polling every interval. layout is the
// default Go time layout (e.g. "15:04"); altLayout, if non-empty, is
// swapped in whenever the module's "toggle" action fires.
func New(name string, interval time.Duration, layout, altLayout string, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	b := builder.New(true)
	toggled := false

	t := module.NewTimer(name, interval, func() (string, error) {
		layoutNow := layout
		if toggled && altLayout != "" {
			layoutNow = altLayout
		}
		label := drawtypes.NewLabel(now().Format(layoutNow))
		b.Node(label, false)
		return b.Flush(), nil
	})

	c := &Clock{Timer: t}
	if altLayout != "" {
		t.Router().RegisterAction("toggle", func() {
			toggled = !toggled
		})
	}
	return c
}
