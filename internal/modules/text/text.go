// Package text implements the simplest producer: a fixed, pre-formatted
// label with no runtime state at all (grounded on the original's
// text_module, a static_module with no update() work to do — see
// _examples/original_source/include/modules/text.hpp).
package text

import (
	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// New returns a Static module named name that always renders label.
func New(name string, label *drawtypes.Label) *module.Static {
	b := builder.New(true)
	return module.NewStatic(name, func() (string, error) {
		b.Node(label, false)
		return b.Flush(), nil
	})
}
