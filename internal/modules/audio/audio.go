// Package audio implements the volume producer. ALSA mixer ioctls and the
// PulseAudio wire protocol are explicitly out of scope (SPEC_FULL.md §5
// Non-goals); instead the module talks to whichever mixer backend is
// wired in through the small Source interface below, matching the pattern
// spec.md's Non-goals section calls for ("concrete modules talk to
// adapters through small Go interfaces"). Grounded on the original's
// volume_module (see _examples/original_source/include/modules/volume.hpp):
// <ramp:volume>/<bar:volume>/<label:volume> when unmuted, <label:muted>
// when muted, and the volup/voldown/volmute actions. Runs as a Watch
// module so a real backend's change-notification channel (a PulseAudio
// subscribe callback delivered over godbus/dbus/v5, in the org.PulseAudio1
// style other desktop services expose) can be polled without blocking the
// worker goroutine on it directly.
package audio

import (
	"fmt"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Source abstracts the mixer backend: current volume/mute state, the
// ability to change it, and a change-notification channel a Watch module
// can poll non-blockingly.
type Source interface {
	// Volume returns the current volume percentage (0-100) and mute state.
	Volume() (percent int, muted bool, err error)
	SetVolume(percent int) error
	ToggleMute() error
	// Changed returns a channel that receives a value whenever the mixer
	// state changes out of band (e.g. another application adjusted it).
	Changed() <-chan struct{}
}

// Config wires the labels a volume module renders with.
type Config struct {
	Source       Source
	RampVolume   *drawtypes.Ramp
	BarVolume    *drawtypes.ProgressBar
	LabelVolume  *drawtypes.Label // token: %percentage%
	LabelMuted   *drawtypes.Label
	Step         int // percentage change per volup/voldown, default 5
}

// New returns a Watch module named name polling cfg.Source.
func New(name string, cfg Config) *module.Watch {
	step := cfg.Step
	if step <= 0 {
		step = 5
	}
	b := builder.New(true)
	pending := false

	render := func() (string, error) {
		percent, muted, err := cfg.Source.Volume()
		if err != nil {
			return "", fmt.Errorf("audio: read volume: %w", err)
		}
		if muted && cfg.LabelMuted != nil {
			b.Node(cfg.LabelMuted, false)
			return b.Flush(), nil
		}
		if cfg.LabelVolume != nil {
			l := cfg.LabelVolume.Clone()
			l.ReplaceToken("%percentage%", fmt.Sprintf("%d%%", percent))
			b.Node(l, false)
		}
		if cfg.RampVolume != nil {
			b.NodeRamp(cfg.RampVolume, float64(percent), false)
		}
		if cfg.BarVolume != nil {
			b.NodeBar(cfg.BarVolume, float64(percent), false)
		}
		return b.Flush(), nil
	}

	attach := func() error {
		pending = true // render once immediately on Start
		return nil
	}
	poll := func() (bool, error) {
		select {
		case <-cfg.Source.Changed():
			pending = true
		default:
		}
		if pending {
			pending = false
			return true, nil
		}
		return false, nil
	}

	m := module.NewWatch(name, attach, poll, render)
	m.Router().RegisterAction("volup", func() {
		percent, _, err := cfg.Source.Volume()
		if err == nil {
			_ = cfg.Source.SetVolume(clampPercent(percent + step))
		}
		pending = true
	})
	m.Router().RegisterAction("voldown", func() {
		percent, _, err := cfg.Source.Volume()
		if err == nil {
			_ = cfg.Source.SetVolume(clampPercent(percent - step))
		}
		pending = true
	})
	m.Router().RegisterAction("volmute", func() {
		_ = cfg.Source.ToggleMute()
		pending = true
	})
	return m
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
