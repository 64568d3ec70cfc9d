// Package workspace implements the window-manager workspace producer.
// Real netlink/X11 event plumbing is out of scope (SPEC_FULL.md §5
// Non-goals); this module instead talks to the window manager's own
// subscribe socket (bspwm's and i3's IPC sockets both work this way)
// through the small Source interface below. Grounded on the original's
// bspwm_module/i3_module (see
// _examples/original_source/include/modules/bspwm.hpp): one label per
// workspace, styled by Focused/Urgent/Empty/Occupied state, each a
// clickable region that focuses the workspace.
package workspace

import (
	"fmt"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/element"
	"github.com/polybar-go/bard/internal/module"
)

// Workspace is one reported window-manager workspace.
type Workspace struct {
	Name    string
	Focused bool
	Urgent  bool
	Empty   bool
}

// Source abstracts a window manager's workspace-subscribe socket.
type Source interface {
	List() ([]Workspace, error)
	Focus(name string) error
	Changed() <-chan struct{}
}

// Config wires the per-state labels a workspace module renders with.
type Config struct {
	Source          Source
	LabelFocused    *drawtypes.Label // token: %name%
	LabelUnfocused  *drawtypes.Label
	LabelUrgent     *drawtypes.Label
	LabelEmpty      *drawtypes.Label
}

// New returns a Watch module named name polling cfg.Source.
func New(name string, cfg Config) *module.Watch {
	b := builder.New(true)
	pending := false

	labelFor := func(ws Workspace) *drawtypes.Label {
		switch {
		case ws.Urgent:
			return cfg.LabelUrgent
		case ws.Focused:
			return cfg.LabelFocused
		case ws.Empty:
			return cfg.LabelEmpty
		default:
			return cfg.LabelUnfocused
		}
	}

	render := func() (string, error) {
		workspaces, err := cfg.Source.List()
		if err != nil {
			return "", fmt.Errorf("workspace: list: %w", err)
		}
		first := true
		for _, ws := range workspaces {
			label := labelFor(ws)
			if label == nil {
				continue
			}
			l := label.Clone()
			l.ReplaceToken("%name%", ws.Name)
			if !first {
				b.Space()
			}
			first = false
			b.Action(element.ButtonLeft, name, "focus", ws.Name)
			b.Node(l, false)
			b.CmdClose()
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
	m.Router().RegisterActionWithData("focus", func(data string) {
		_ = cfg.Source.Focus(data)
		pending = true
	})
	return m
}
