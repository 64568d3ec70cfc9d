// Package menu implements a static, nested click-driven menu: a closed
// toggle label that opens a tree of levels, each level a list of
// clickable items that either open the next level or close the menu.
// The rendered labels carry no action tags of their own; the open, close
// and level-N actions are reached through the module's Input. Grounded on the original's menu_module (see
// _examples/original_source/include/modules/menu.hpp), whose
// current_level/levels bookkeeping and menu_open-N/menu_close commands
// this mirrors; translated onto module.Event rather than its
// static_module base, since Go's runtime skeletons model "redraw on
// demand" as a timeout-bounded event wait rather than a bare virtual
// method the aggregator calls synchronously.
package menu

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/polybar-go/bard/internal/builder"
	"github.com/polybar-go/bard/internal/drawtypes"
	"github.com/polybar-go/bard/internal/module"
)

// Item is one clickable entry within a menu level.
type Item struct {
	Label *drawtypes.Label
	// Next is the index (into Config.Levels) this item opens when clicked,
	// or -1 if clicking it should close the menu instead.
	Next int
}

// Level is one tier of the menu: a list of items shown while that level is
// current.
type Level struct {
	Items []Item
}

// Config wires a menu's toggle label and its tree of levels.
type Config struct {
	LabelToggleOpen  *drawtypes.Label
	LabelToggleClose *drawtypes.Label
	Levels           []Level
	Spacing          string
}

// New returns an Event module named name that renders cfg's current level
// (or the closed toggle label) and republishes immediately whenever
// "open", "close", or a "level-N" action fires. A level-N action carries
// the clicked item's index within level N as its data.
func New(name string, cfg Config) *module.Event {
	signal := make(chan struct{}, 1)
	currentLevel := -1

	b := builder.New(true)
	render := func() (string, error) {
		if currentLevel < 0 {
			if cfg.LabelToggleOpen != nil {
				b.Node(cfg.LabelToggleOpen, false)
			}
			return b.Flush(), nil
		}
		if currentLevel >= len(cfg.Levels) {
			return "", fmt.Errorf("menu: level %d out of range", currentLevel)
		}

		var blocks []string
		if cfg.LabelToggleClose != nil {
			b.Node(cfg.LabelToggleClose, false)
			if block := b.Flush(); block != "" {
				blocks = append(blocks, block)
			}
		}
		for _, item := range cfg.Levels[currentLevel].Items {
			b.Node(item.Label, false)
			if block := b.Flush(); block != "" {
				blocks = append(blocks, block)
			}
		}
		return strings.Join(blocks, cfg.Spacing), nil
	}

	wake := func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	}
	hasEvent := func(timeout time.Duration) bool {
		select {
		case <-signal:
			return true
		case <-time.After(timeout):
			return false
		}
	}

	m := module.NewEvent(name, hasEvent, render)
	m.Router().RegisterAction("open", func() {
		currentLevel = 0
		wake()
	})
	m.Router().RegisterAction("close", func() {
		currentLevel = -1
		wake()
	})
	for levelIdx := range cfg.Levels {
		levelIdx := levelIdx
		m.Router().RegisterActionWithData(fmt.Sprintf("level-%d", levelIdx), func(data string) {
			i, err := strconv.Atoi(data)
			if err != nil || i < 0 || i >= len(cfg.Levels[levelIdx].Items) {
				return
			}
			currentLevel = cfg.Levels[levelIdx].Items[i].Next
			wake()
		})
	}
	wake() // render the closed toggle label immediately on Start
	return m
}
