package ipchook

import (
	"testing"
	"time"
)

func waitUpdate(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func TestHookPublishesInitialValue(t *testing.T) {
	h := New("hook", "hello")
	updates := make(chan struct{}, 4)
	h.OnUpdate(func(string) { updates <- struct{}{} })

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer h.Stop()

	waitUpdate(t, updates)
	if got := h.Contents(); got != "hello" {
		t.Errorf("Contents() = %q, want %q", got, "hello")
	}
}

func TestTriggerRepublishes(t *testing.T) {
	h := New("hook", "")
	updates := make(chan struct{}, 4)
	h.OnUpdate(func(string) { updates <- struct{}{} })

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer h.Stop()

	h.Trigger("battery-low")
	waitUpdate(t, updates)
	if got := h.Contents(); got != "battery-low" {
		t.Errorf("Contents() = %q, want %q", got, "battery-low")
	}
}

func TestSetActionRoutesThroughRouter(t *testing.T) {
	h := New("hook", "")
	updates := make(chan struct{}, 4)
	h.OnUpdate(func(string) { updates <- struct{}{} })

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer h.Stop()

	if err := h.Input("set", "via-action"); err != nil {
		t.Fatalf("Input(set) error = %v", err)
	}
	waitUpdate(t, updates)
	if got := h.Contents(); got != "via-action" {
		t.Errorf("Contents() = %q, want %q", got, "via-action")
	}
}
