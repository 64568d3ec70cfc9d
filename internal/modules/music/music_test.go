package music

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polybar-go/bard/internal/drawtypes"
)

type fakeSource struct {
	mu      sync.Mutex
	status  Status
	offline bool
	changed chan struct{}
	played  bool
}

func newFakeSource(s Status) *fakeSource {
	return &fakeSource{status: s, changed: make(chan struct{}, 1)}
}

func (f *fakeSource) Status() (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return Status{}, errors.New("no player")
	}
	return f.status, nil
}

func (f *fakeSource) Play() error {
	f.mu.Lock()
	f.status.State = Playing
	f.played = true
	f.mu.Unlock()
	return nil
}
func (f *fakeSource) Pause() error { f.mu.Lock(); f.status.State = Paused; f.mu.Unlock(); return nil }
func (f *fakeSource) Stop() error  { f.mu.Lock(); f.status.State = Stopped; f.mu.Unlock(); return nil }
func (f *fakeSource) Next() error  { return nil }
func (f *fakeSource) Previous() error { return nil }
func (f *fakeSource) Changed() <-chan struct{} { return f.changed }

func waitUpdate(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
	}
}

func songLabel() *drawtypes.Label {
	text, tokens := drawtypes.ParseLabelText("%artist% - %title%")
	l := drawtypes.NewLabel(text)
	l.Tokens = tokens
	return l
}

func TestMusicRendersSongOnStart(t *testing.T) {
	src := newFakeSource(Status{Artist: "Boards of Canada", Title: "Roygbiv", State: Playing})
	m := New("music", Config{Source: src, LabelSong: songLabel()})

	updates := make(chan struct{}, 4)
	m.OnUpdate(func(string) { updates <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	waitUpdate(t, updates)
	if got := m.Contents(); !strings.Contains(got, "Boards of Canada - Roygbiv") {
		t.Errorf("Contents() = %q, want to contain song info", got)
	}
}

func TestMusicFallsBackToOfflineLabel(t *testing.T) {
	src := &fakeSource{offline: true, changed: make(chan struct{}, 1)}
	offline := drawtypes.NewLabel("no player")
	m := New("music", Config{Source: src, LabelOffline: offline})

	updates := make(chan struct{}, 4)
	m.OnUpdate(func(string) { updates <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()

	waitUpdate(t, updates)
	if got := m.Contents(); got != "no player" {
		t.Errorf("Contents() = %q, want %q", got, "no player")
	}
}

func TestMprisPauseAction(t *testing.T) {
	src := newFakeSource(Status{Artist: "a", Title: "b", State: Playing})
	m := New("music", Config{Source: src, LabelSong: songLabel()})

	updates := make(chan struct{}, 4)
	m.OnUpdate(func(string) { updates <- struct{}{} })

	if err := m.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop()
	waitUpdate(t, updates)

	if err := m.Input("mprispause", ""); err != nil {
		t.Fatalf("Input(mprispause) error = %v", err)
	}

	src.mu.Lock()
	state := src.status.State
	src.mu.Unlock()
	if state != Paused {
		t.Errorf("source state = %v, want Paused", state)
	}
}
