package backlight

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polybar-go/bard/internal/drawtypes"
)

type fakeSource struct {
	mu             sync.Mutex
	current, max   int
}

func (f *fakeSource) Brightness() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, f.max, nil
}

func (f *fakeSource) set(current int) {
	f.mu.Lock()
	f.current = current
	f.mu.Unlock()
}

func percentLabel() *drawtypes.Label {
	text, tokens := drawtypes.ParseLabelText("%percentage%")
	l := drawtypes.NewLabel(text)
	l.Tokens = tokens
	return l
}

func TestBacklightRendersOnStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brightness")
	if err := os.WriteFile(path, []byte("50"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := &fakeSource{current: 50, max: 100}
	m := New("backlight", Config{Source: src, WatchPath: path, Label: percentLabel()})

	updated := make(chan struct{}, 4)
	m.OnUpdate(func(string) { updated <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	select {
	case <-updated:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial publish")
	}
	if got := m.Contents(); !strings.Contains(got, "50%") {
		t.Errorf("Contents() = %q, want to contain 50%%", got)
	}
}

func TestBacklightRerendersOnFileWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brightness")
	if err := os.WriteFile(path, []byte("50"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := &fakeSource{current: 50, max: 100}
	m := New("backlight", Config{Source: src, WatchPath: path, Label: percentLabel()})

	updated := make(chan struct{}, 4)
	m.OnUpdate(func(string) { updated <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	select {
	case <-updated:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for initial publish")
	}

	src.set(80)
	if err := os.WriteFile(path, []byte("80"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for rerender after file write")
	}
	if got := m.Contents(); !strings.Contains(got, "80%") {
		t.Errorf("Contents() = %q, want to contain 80%%", got)
	}
}
