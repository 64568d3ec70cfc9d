// Package keyboard implements the keyboard-layout producer. The X keyboard
// extension (XKB) is explicitly out of scope (SPEC_FULL.md §5 Non-goals
// excludes X11/XCB entirely); this module instead polls whatever layout
// source is wired in — typically a thin wrapper around "setxkbmap -query"
// or a desktop session's own layout-switch D-Bus signal — through the
// small Source interface below. Grounded on the original's
// xkeyboard_module (see
// _examples/original_source/include/modules/xkeyboard.hpp):
// <label-layout> plus one <label-indicator> per active lock indicator
// (caps lock, num lock), with indicators the config can blacklist.
package keyboard

import (
	"fmt"
	"time"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Source abstracts the keyboard layout/indicator backend.
type Source interface {
	// Layout returns the active layout name (e.g. "us", "de").
	Layout() (string, error)
	// Indicators returns the set of currently-active lock indicators (e.g.
	// "capslock", "numlock").
	Indicators() (map[string]bool, error)
}

// Config wires the labels a keyboard module renders with.
type Config struct {
	Source Source
	// LabelLayout renders the active layout; token: %layout%.
	LabelLayout *drawtypes.Label
	// IndicatorLabels maps an indicator name to the label shown while it's
	// active.
	IndicatorLabels map[string]*drawtypes.Label
	// Blacklist names indicators never rendered even if active.
	Blacklist map[string]bool
}

// New returns a Timer module named name polling cfg.Source every interval.
func New(name string, interval time.Duration, cfg Config) *module.Timer {
	b := builder.New(true)
	return module.NewTimer(name, interval, func() (string, error) {
		layout, err := cfg.Source.Layout()
		if err != nil {
			return "", fmt.Errorf("keyboard: read layout: %w", err)
		}
		if cfg.LabelLayout != nil {
			l := cfg.LabelLayout.Clone()
			l.ReplaceToken("%layout%", layout)
			b.Node(l, false)
		}

		indicators, err := cfg.Source.Indicators()
		if err != nil {
			return "", fmt.Errorf("keyboard: read indicators: %w", err)
		}
		for ind, active := range indicators {
			if !active || cfg.Blacklist[ind] {
				continue
			}
			if label, ok := cfg.IndicatorLabels[ind]; ok {
				b.Node(label, true)
			}
		}
		return b.Flush(), nil
	})
}
