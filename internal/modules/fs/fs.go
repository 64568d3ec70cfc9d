// Package fs implements the filesystem-usage producer, grounded on the
// original's fs_module (see
// _examples/original_source/include/modules/fs.hpp): one block per
// configured mountpoint, each rendered from a disk.Usage reading and
// marked mounted/unmounted, with byte quantities formatted via
// go-humanize.
package fs

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
)

// UsageFunc matches gopsutil/v3 disk.Usage's signature.
type UsageFunc func(path string) (*disk.UsageStat, error)

// Mount is one configured mountpoint this module reports on.
type Mount struct {
	Path            string
	LabelMounted    *drawtypes.Label // tokens: %mountpoint%, %percentage_used%, %used%, %total%, %free%
	LabelUnmounted  *drawtypes.Label
	BarUsed         *drawtypes.ProgressBar
	BarFree         *drawtypes.ProgressBar
}

// Config wires the mounts a fs module reports on.
type Config struct {
	Mounts []Mount
	Usage  UsageFunc // defaults to disk.Usage
	Spacing string
}

// Update returns a closure suitable for module.NewTimer, rendering each
// configured mount's block in order and joining them with Spacing.
func Update(cfg Config) func() (string, error) {
	usage := cfg.Usage
	if usage == nil {
		usage = disk.Usage
	}
	b := builder.New(true)
	return func() (string, error) {
		var blocks []string
		for _, m := range cfg.Mounts {
			st, err := usage(m.Path)
			if err != nil {
				if m.LabelUnmounted != nil {
					l := m.LabelUnmounted.Clone()
					l.ReplaceToken("%mountpoint%", m.Path)
					b.Node(l, false)
					if block := b.Flush(); block != "" {
						blocks = append(blocks, block)
					}
				}
				continue
			}

			if m.LabelMounted != nil {
				l := m.LabelMounted.Clone()
				l.ReplaceToken("%mountpoint%", m.Path)
				l.ReplaceToken("%percentage_used%", fmt.Sprintf("%.0f%%", st.UsedPercent))
				l.ReplaceToken("%used%", humanize.IBytes(st.Used))
				l.ReplaceToken("%total%", humanize.IBytes(st.Total))
				l.ReplaceToken("%free%", humanize.IBytes(st.Free))
				b.Node(l, false)
			}
			if m.BarUsed != nil {
				b.NodeBar(m.BarUsed, st.UsedPercent, false)
			}
			if m.BarFree != nil {
				b.NodeBar(m.BarFree, 100-st.UsedPercent, false)
			}
			if block := b.Flush(); block != "" {
				blocks = append(blocks, block)
			}
		}
		return strings.Join(blocks, cfg.Spacing), nil
	}
}
