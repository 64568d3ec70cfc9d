// Package counter implements a trivial fixture module that renders a
// monotonically incrementing integer on a fixed interval. It exists as a
// cheap liveness/throttle-testing producer, grounded on the original's
// counter_module — a timer_module that bumps an int every tick and formats
// it into <counter> (see
// _examples/original_source/include/modules/counter.hpp).
package counter

import (
	"strconv"
	"time"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// New returns a Timer module named name that increments its counter every
// interval and renders it through label, substituting the "%counter%"
// token if the label's text registered one.
func New(name string, interval time.Duration, label *drawtypes.Label) *module.Timer {
	b := builder.New(true)
	count := 0
	return module.NewTimer(name, interval, func() (string, error) {
		count++
		out := label.Clone()
		out.ReplaceToken("%counter%", strconv.Itoa(count))
		b.Node(out, false)
		return b.Flush(), nil
	})
}
