package main

import (
	"testing"

	"github.com/polybar-go/bard/internal/barlog"
	"github.com/polybar-go/bard/internal/element"
	"github.com/polybar-go/bard/internal/format/dispatcher"
)

func TestBuildDemoModulesRegistersFixedSet(t *testing.T) {
	log := barlog.New(&discard{}, barlog.LevelNone)
	mods := buildDemoModules(log)
	if len(mods) != 5 {
		t.Fatalf("len(mods) = %d, want 5", len(mods))
	}
	names := map[string]bool{}
	for _, m := range mods {
		names[m.mod.Name()] = true
	}
	for _, want := range []string{"label", "clock", "cpu", "mem", "counter"} {
		if !names[want] {
			t.Errorf("missing demo module %q", want)
		}
	}
}

func TestLipglossColorRendersUnsetAsEmpty(t *testing.T) {
	if got := lipglossColor(element.Color{}); got != "" {
		t.Errorf("lipglossColor(unset) = %q, want empty", got)
	}
}

func TestLipglossColorRendersSetColorAsHex(t *testing.T) {
	c, err := element.ParseColor("#ff0000")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	got := lipglossColor(c)
	if got == "" {
		t.Errorf("lipglossColor(set) = empty, want a hex string")
	}
}

func TestStdoutRendererAccumulatesPerAlignmentOffset(t *testing.T) {
	r := newStdoutRenderer()
	ctx := &dispatcher.Context{Alignment: element.AlignLeft}
	r.RenderText(ctx, "hello")
	r.RenderOffset(ctx, 3)
	if got := r.GetX(ctx); got != 8 {
		t.Errorf("GetX = %v, want 8", got)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
