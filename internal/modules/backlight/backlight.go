// Package backlight implements the screen-brightness producer. Grounded on
// the original's backlight_module (see
// _examples/original_source/include/modules/backlight.hpp): an
// InotifyModule watching the sysfs brightness file for writes, rerendering
// <label>/<bar>/<ramp> on each change. The Go translation swaps raw
// inotify for fsnotify (SPEC_FULL.md's DOMAIN STACK section assigns it to
// exactly this module) and reads the actual value through the small
// Source interface below rather than parsing the sysfs file itself, so
// tests can fake it.
package backlight

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Source reads the current brightness level.
type Source interface {
	// Brightness returns the current and maximum raw brightness values;
	// the percentage is current*100/max.
	Brightness() (current, max int, err error)
}

// Config wires the label/bar/ramp a backlight module renders with and the
// sysfs path fsnotify watches for changes.
type Config struct {
	Source     Source
	WatchPath  string // e.g. "/sys/class/backlight/intel_backlight/brightness"
	Label      *drawtypes.Label // token: %percentage%
	Bar        *drawtypes.ProgressBar
	Ramp       *drawtypes.Ramp
	newWatcher func() (*fsnotify.Watcher, error) // overridable in tests
}

// New returns a Watch module named name, attaching an fsnotify watch on
// cfg.WatchPath and rerendering whenever it fires.
func New(name string, cfg Config) *module.Watch {
	newWatcher := cfg.newWatcher
	if newWatcher == nil {
		newWatcher = fsnotify.NewWatcher
	}

	b := builder.New(true)
	var watcher *fsnotify.Watcher
	pending := false

	render := func() (string, error) {
		current, max, err := cfg.Source.Brightness()
		if err != nil {
			return "", fmt.Errorf("backlight: read brightness: %w", err)
		}
		percent := 0.0
		if max > 0 {
			percent = float64(current) * 100 / float64(max)
		}
		if cfg.Label != nil {
			l := cfg.Label.Clone()
			l.ReplaceToken("%percentage%", fmt.Sprintf("%.0f%%", percent))
			b.Node(l, false)
		}
		if cfg.Bar != nil {
			b.NodeBar(cfg.Bar, percent, false)
		}
		if cfg.Ramp != nil {
			b.NodeRamp(cfg.Ramp, percent, false)
		}
		return b.Flush(), nil
	}

	attach := func() error {
		w, err := newWatcher()
		if err != nil {
			return fmt.Errorf("backlight: new watcher: %w", err)
		}
		dir := filepath.Dir(cfg.WatchPath)
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return fmt.Errorf("backlight: watch %q: %w", dir, err)
		}
		watcher = w
		pending = true
		return nil
	}
	poll := func() (bool, error) {
		if watcher == nil {
			return false, nil
		}
		select {
		case ev, ok := <-watcher.Events:
			if ok && filepath.Base(ev.Name) == filepath.Base(cfg.WatchPath) {
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if ok && err != nil {
				return false, fmt.Errorf("backlight: watcher: %w", err)
			}
		default:
		}
		if pending {
			pending = false
			return true, nil
		}
		return false, nil
	}

	return module.NewWatch(name, attach, poll, render)
}
