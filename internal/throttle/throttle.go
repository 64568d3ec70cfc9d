// Package throttle implements a sliding-window rate limiter used by the
// aggregator to cap how often it recomposes and redraws the bar.
package throttle

import (
	"sync"
	"time"
)

// DefaultLimit and DefaultWindow match the aggregator's own defaults:
// at most 3 passes per 60ms window, which suppresses runaway redraws from
// a burst of module updates without visibly lagging behind real ones.
const (
	DefaultLimit  = 3
	DefaultWindow = 60 * time.Millisecond
)

// Throttle is a sliding window over a queue of pass timestamps: at most
// Limit passes are allowed within any Window-sized interval ending at now.
type Throttle struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	history []time.Time
}

// New returns a Throttle with the given limit and window. A non-positive
// limit or window falls back to the package defaults.
func New(limit int, window time.Duration) *Throttle {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Throttle{limit: limit, window: window}
}

// expire drops every recorded timestamp older than now-window. Caller must
// hold mu.
func (t *Throttle) expire(now time.Time) {
	cutoff := now.Add(-t.window)
	i := 0
	for i < len(t.history) && t.history[i].Before(cutoff) {
		i++
	}
	t.history = t.history[i:]
}

// TryPass attempts a pass at now without blocking: if fewer than Limit
// passes are recorded within the trailing window, it records now and
// returns true; otherwise it denies the pass and returns false.
func (t *Throttle) TryPass(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expire(now)
	if len(t.history) >= t.limit {
		return false
	}
	t.history = append(t.history, now)
	return true
}

// WaitPass blocks until a pass is allowed, then records it. It returns the
// time at which the pass was recorded. It uses time.Now and time.Sleep;
// tests call waitPass with a fake clock to avoid real sleeps.
func (t *Throttle) WaitPass() time.Time {
	return t.waitPass(time.Now, time.Sleep)
}

func (t *Throttle) waitPass(now func() time.Time, sleep func(time.Duration)) time.Time {
	for {
		t.mu.Lock()
		n := now()
		t.expire(n)
		if len(t.history) < t.limit {
			t.history = append(t.history, n)
			t.mu.Unlock()
			return n
		}
		// Oldest entry exits the window at history[0]+window; sleep until
		// then and retry rather than busy-spinning. Once that moment is
		// reached, the oldest entry is dropped and the pass is recorded.
		wait := t.history[0].Add(t.window).Sub(n)
		if wait <= 0 {
			t.history = append(t.history[1:], n)
			t.mu.Unlock()
			return n
		}
		t.mu.Unlock()
		sleep(wait)
	}
}

// Reset clears all recorded passes.
func (t *Throttle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = nil
}
