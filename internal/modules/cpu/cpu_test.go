package cpu

import (
	"strings"
	"testing"
	"time"

	"github.com/polybar-go/bard/internal/drawtypes"
)

func fakePercent(cores []float64, err error) PercentFunc {
	return func(time.Duration, bool) ([]float64, error) { return cores, err }
}

func TestUpdateAveragesPerCoreReadings(t *testing.T) {
	text, tokens := drawtypes.ParseLabelText("%percentage%")
	label := drawtypes.NewLabel(text)
	label.Tokens = tokens

	update := Update(Config{
		Label:   label,
		Percent: fakePercent([]float64{10, 20, 30, 40}, nil),
	})

	out, err := update()
	if err != nil {
		t.Fatalf("update() error = %v", err)
	}
	if !strings.Contains(out, "25%") {
		t.Errorf("output = %q, want to contain average 25%%", out)
	}
}

func TestUpdatePropagatesReadError(t *testing.T) {
	update := Update(Config{Percent: fakePercent(nil, assertErr{})})
	if _, err := update(); err == nil {
		t.Error("update() error = nil, want non-nil on read failure")
	}
}

func TestUpdateErrorsOnEmptyCores(t *testing.T) {
	update := Update(Config{Percent: fakePercent(nil, nil)})
	if _, err := update(); err == nil {
		t.Error("update() error = nil, want non-nil on empty core list")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
