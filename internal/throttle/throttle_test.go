package throttle

import (
	"testing"
	"time"
)

func TestTryPassSlidingWindow(t *testing.T) {
	th := New(2, 100*time.Millisecond)
	base := time.Unix(0, 0)

	tests := []struct {
		offsetMs int
		want     bool
	}{
		{0, true},
		{10, true},
		{20, false},
		{90, false},
		{110, true},
	}
	for _, tt := range tests {
		now := base.Add(time.Duration(tt.offsetMs) * time.Millisecond)
		if got := th.TryPass(now); got != tt.want {
			t.Errorf("TryPass(t=%dms) = %v, want %v", tt.offsetMs, got, tt.want)
		}
	}
}

func TestTryPassDefaults(t *testing.T) {
	th := New(0, 0)
	if th.limit != DefaultLimit || th.window != DefaultWindow {
		t.Fatalf("New(0,0) = {%d, %v}, want defaults {%d, %v}", th.limit, th.window, DefaultLimit, DefaultWindow)
	}
}

func TestWaitPassSleepsUntilWindowClears(t *testing.T) {
	th := New(1, 50*time.Millisecond)
	base := time.Unix(0, 0)

	clock := base
	var slept []time.Duration
	now := func() time.Time { return clock }
	sleep := func(d time.Duration) {
		slept = append(slept, d)
		clock = clock.Add(d)
	}

	first := th.waitPass(now, sleep)
	if !first.Equal(base) {
		t.Fatalf("first waitPass = %v, want %v", first, base)
	}

	second := th.waitPass(now, sleep)
	if len(slept) != 1 {
		t.Fatalf("expected exactly one sleep, got %d: %v", len(slept), slept)
	}
	if slept[0] != 50*time.Millisecond {
		t.Errorf("slept %v, want 50ms", slept[0])
	}
	if second.Before(base.Add(50 * time.Millisecond)) {
		t.Errorf("second pass recorded at %v, want >= %v", second, base.Add(50*time.Millisecond))
	}
}

func TestResetClearsHistory(t *testing.T) {
	th := New(1, 100*time.Millisecond)
	now := time.Unix(0, 0)
	if !th.TryPass(now) {
		t.Fatal("first TryPass should succeed")
	}
	if th.TryPass(now) {
		t.Fatal("second TryPass within window should be denied")
	}
	th.Reset()
	if !th.TryPass(now) {
		t.Fatal("TryPass after Reset should succeed")
	}
}
