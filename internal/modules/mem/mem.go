// Package mem implements the memory-usage producer, grounded on the
// original's memory_module (see
// _examples/original_source/include/modules/memory.hpp): <label>,
// <bar-used> and <bar-free> tags driven off a single VirtualMemory
// reading, with byte quantities formatted via go-humanize the way the
// teacher's fetchStats expresses memory in fixed units.
package mem

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
)

// VirtualMemoryFunc matches gopsutil/v3 mem.VirtualMemory's signature.
type VirtualMemoryFunc func() (*mem.VirtualMemoryStat, error)

// Config wires the labels and bars a mem module renders with.
type Config struct {
	Label         *drawtypes.Label // tokens: %percentage_used%, %gb_used%, %gb_total%, %gb_free%
	BarUsed       *drawtypes.ProgressBar
	BarFree       *drawtypes.ProgressBar
	VirtualMemory VirtualMemoryFunc // defaults to mem.VirtualMemory
}

// Update returns a closure suitable for module.NewTimer that renders cfg's
// tags from a fresh reading each tick.
func Update(cfg Config) func() (string, error) {
	read := cfg.VirtualMemory
	if read == nil {
		read = mem.VirtualMemory
	}
	b := builder.New(true)
	return func() (string, error) {
		vm, err := read()
		if err != nil {
			return "", fmt.Errorf("mem: read virtual memory: %w", err)
		}

		if cfg.Label != nil {
			l := cfg.Label.Clone()
			l.ReplaceToken("%percentage_used%", fmt.Sprintf("%.0f%%", vm.UsedPercent))
			l.ReplaceToken("%gb_used%", humanize.IBytes(vm.Used))
			l.ReplaceToken("%gb_total%", humanize.IBytes(vm.Total))
			l.ReplaceToken("%gb_free%", humanize.IBytes(vm.Free))
			b.Node(l, false)
		}
		if cfg.BarUsed != nil {
			b.NodeBar(cfg.BarUsed, vm.UsedPercent, false)
		}
		if cfg.BarFree != nil {
			free := 100 - vm.UsedPercent
			b.NodeBar(cfg.BarFree, free, false)
		}
		return b.Flush(), nil
	}
}
