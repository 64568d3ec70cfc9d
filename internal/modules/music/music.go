// Package music implements the media-player producer. The MPD wire
// protocol is explicitly out of scope (SPEC_FULL.md §5 Non-goals); this
// module instead targets MPRIS2, the D-Bus-based control surface most
// desktop players (including mpd front-ends like mpDris2) expose. The
// package contains no D-Bus client: it reaches the player only through the
// Source interface below. Grounded on the original's mpris_module (see
// _examples/original_source/include/modules/mpris.hpp): <label-song>,
// <icon-play>/<icon-pause>, <bar-progress>, and the mprisplay/mprispause/
// mprisstop/mprisnext/mprisprev actions; the original's repeat and random
// actions are not registered.
package music

import (
	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// PlayState mirrors MPRIS2's PlaybackStatus property.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

// Status is one snapshot of player state.
type Status struct {
	Artist, Title  string
	State          PlayState
	PositionPct    float64 // 0-100, current position within the track
}

// Source abstracts an MPRIS2 player: current status, transport controls,
// and a property-change notification channel.
type Source interface {
	Status() (Status, error)
	Play() error
	Pause() error
	Stop() error
	Next() error
	Previous() error
	Changed() <-chan struct{}
}

// Config wires the labels a music module renders with.
type Config struct {
	Source         Source
	LabelSong      *drawtypes.Label // tokens: %artist%, %title%
	LabelOffline   *drawtypes.Label
	IconPlay       *drawtypes.Label
	IconPause      *drawtypes.Label
	BarProgress    *drawtypes.ProgressBar
}

// New returns a Watch module named name polling cfg.Source.
func New(name string, cfg Config) *module.Watch {
	b := builder.New(true)
	pending := false

	render := func() (string, error) {
		status, err := cfg.Source.Status()
		if err != nil {
			if cfg.LabelOffline != nil {
				b.Node(cfg.LabelOffline, false)
			}
			return b.Flush(), nil
		}

		if cfg.LabelSong != nil {
			l := cfg.LabelSong.Clone()
			l.ReplaceToken("%artist%", status.Artist)
			l.ReplaceToken("%title%", status.Title)
			b.Node(l, false)
		}
		switch status.State {
		case Playing:
			if cfg.IconPause != nil {
				b.Node(cfg.IconPause, false)
			}
		default:
			if cfg.IconPlay != nil {
				b.Node(cfg.IconPlay, false)
			}
		}
		if cfg.BarProgress != nil {
			b.NodeBar(cfg.BarProgress, status.PositionPct, false)
		}
		return b.Flush(), nil
	}

	attach := func() error {
		pending = true
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
	register := func(action string, fn func() error) {
		m.Router().RegisterAction(action, func() {
			_ = fn() // transport errors surface on the next Status() poll instead
			pending = true
		})
	}
	register("mprisplay", cfg.Source.Play)
	register("mprispause", cfg.Source.Pause)
	register("mprisstop", cfg.Source.Stop)
	register("mprisnext", cfg.Source.Next)
	register("mprisprev", cfg.Source.Previous)
	return m
}
