// Package cpu implements the CPU-load producer. Per-core percentages come
// from a single gopsutil/v3 cpu.Percent(0, true) call, and the aggregate is
// derived by averaging the cores rather than a second call with
// aggregate=true — the same fix the teacher's fetchStats applies, since a
// second call at interval=0 would measure a near-zero window and return
// garbage (see _examples/ALH477-infgo/main.go's fetchStats). Grounded on
// the original's cpu_module (see
// _examples/original_source/include/modules/cpu.hpp): <label>, <ramp-load>
// and <ramp-load_per_core> tags driven off the same two readings.
package cpu

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
)

// PercentFunc matches gopsutil/v3 cpu.Percent's signature, substitutable in
// tests.
type PercentFunc func(interval time.Duration, percpu bool) ([]float64, error)

// Config wires the labels and ramps a cpu module renders with.
type Config struct {
	Label        *drawtypes.Label // tokens: %percentage%, %percentage-sum%
	RampLoad     *drawtypes.Ramp
	RampPerCore  *drawtypes.Ramp // one frame rendered per core, concatenated
	Percent      PercentFunc     // defaults to cpu.Percent
}

// Update returns a closure suitable for module.NewTimer that renders cfg's
// tags from a fresh reading each tick.
func Update(cfg Config) func() (string, error) {
	percent := cfg.Percent
	if percent == nil {
		percent = cpu.Percent
	}
	b := builder.New(true)
	return func() (string, error) {
		cores, err := percent(0, true)
		if err != nil {
			return "", fmt.Errorf("cpu: read percent: %w", err)
		}
		if len(cores) == 0 {
			return "", fmt.Errorf("cpu: no cores reported")
		}

		var total float64
		for _, c := range cores {
			total += c
		}
		total /= float64(len(cores))

		if cfg.Label != nil {
			l := cfg.Label.Clone()
			l.ReplaceToken("%percentage%", fmt.Sprintf("%.0f%%", total))
			sum := 0.0
			for _, c := range cores {
				sum += c
			}
			l.ReplaceToken("%percentage-sum%", fmt.Sprintf("%.0f%%", sum))
			b.Node(l, false)
		}
		if cfg.RampLoad != nil {
			b.NodeRamp(cfg.RampLoad, total, false)
		}
		if cfg.RampPerCore != nil {
			for _, c := range cores {
				b.NodeRamp(cfg.RampPerCore, c, false)
			}
		}
		return b.Flush(), nil
	}
}
