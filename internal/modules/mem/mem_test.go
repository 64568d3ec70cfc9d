package mem

import (
	"strings"
	"testing"

	gopsutilmem "github.com/shirou/gopsutil/v3/mem"

	"github.com/polybar-go/bard/internal/drawtypes"
)

func TestUpdateRendersPercentage(t *testing.T) {
	text, tokens := drawtypes.ParseLabelText("%percentage_used%")
	label := drawtypes.NewLabel(text)
	label.Tokens = tokens

	update := Update(Config{
		Label: label,
		VirtualMemory: func() (*gopsutilmem.VirtualMemoryStat, error) {
			return &gopsutilmem.VirtualMemoryStat{UsedPercent: 42.3}, nil
		},
	})

	out, err := update()
	if err != nil {
		t.Fatalf("update() error = %v", err)
	}
	if !strings.Contains(out, "42%") {
		t.Errorf("output = %q, want to contain 42%%", out)
	}
}

func TestUpdatePropagatesReadError(t *testing.T) {
	update := Update(Config{
		VirtualMemory: func() (*gopsutilmem.VirtualMemoryStat, error) {
			return nil, errBoom
		},
	})
	if _, err := update(); err == nil {
		t.Error("update() error = nil, want non-nil")
	}
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

var errBoom = boomErr{}
