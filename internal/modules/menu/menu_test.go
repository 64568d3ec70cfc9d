package menu

import (
	"strings"
	"testing"
	"time"

	"github.com/polybar-go/bard/internal/drawtypes"
)

func label(s string) *drawtypes.Label {
	return drawtypes.NewLabel(s)
}

func waitForUpdate(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for module update")
	}
}

func TestMenuOpensAndClosesOnAction(t *testing.T) {
	cfg := Config{
		LabelToggleOpen:  label("menu"),
		LabelToggleClose: label("x"),
		Levels: []Level{
			{Items: []Item{{Label: label("item-a"), Next: -1}, {Label: label("item-b"), Next: -1}}},
		},
	}
	m := New("menu", cfg)
	updates := make(chan struct{}, 8)
	m.OnUpdate(func(string) { updates <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	waitForUpdate(t, updates)
	if got := m.Contents(); got != "menu" {
		t.Errorf("initial Contents() = %q, want %q", got, "menu")
	}

	if err := m.Input("open", ""); err != nil {
		t.Fatalf("Input(open) error = %v", err)
	}
	waitForUpdate(t, updates)
	if got := m.Contents(); !strings.Contains(got, "item-a") || !strings.Contains(got, "item-b") {
		t.Errorf("Contents() after open = %q, want both items", got)
	}

	if err := m.Input("close", ""); err != nil {
		t.Fatalf("Input(close) error = %v", err)
	}
	waitForUpdate(t, updates)
	if got := m.Contents(); got != "menu" {
		t.Errorf("Contents() after close = %q, want %q", got, "menu")
	}
}

func TestMenuItemNavigatesToNextLevel(t *testing.T) {
	cfg := Config{
		LabelToggleOpen:  label("menu"),
		LabelToggleClose: label("x"),
		Levels: []Level{
			{Items: []Item{{Label: label("sub"), Next: 1}}},
			{Items: []Item{{Label: label("leaf"), Next: -1}}},
		},
	}
	m := New("menu", cfg)
	updates := make(chan struct{}, 8)
	m.OnUpdate(func(string) { updates <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()
	waitForUpdate(t, updates)

	if err := m.Input("open", ""); err != nil {
		t.Fatalf("Input(open) error = %v", err)
	}
	waitForUpdate(t, updates)

	if err := m.Input("level-0", "0"); err != nil {
		t.Fatalf("Input(level-0) error = %v", err)
	}
	waitForUpdate(t, updates)
	if got := m.Contents(); !strings.Contains(got, "leaf") {
		t.Errorf("Contents() after navigating = %q, want leaf", got)
	}
}
