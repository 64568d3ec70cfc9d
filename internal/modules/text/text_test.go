package text

import (
	"strings"
	"testing"

	"github.com/polybar-go/bard/internal/drawtypes"
)

func TestNewRendersFixedLabel(t *testing.T) {
	label := drawtypes.NewLabel("hello world")
	m := New("text", label)

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := m.Contents(); !strings.Contains(got, "hello world") {
		t.Errorf("Contents() = %q, want to contain %q", got, "hello world")
	}
}

func TestNewEmptyLabelRendersEmpty(t *testing.T) {
	label := drawtypes.NewLabel("")
	m := New("text", label)

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := m.Contents(); got != "" {
		t.Errorf("Contents() = %q, want empty", got)
	}
}
