package drawtypes

import "time"

// Animation cycles through a sequence of label frames at a fixed frame
// rate, advancing lazily whenever Get is called (spec.md's "text" module
// variant and similar producers poll it on each update tick).
type Animation struct {
	frames      []*Label
	framerateMs int
	current     int
	updatedAt   time.Time
}

// NewAnimation returns an Animation with no frames yet, ticking at
// framerateMs milliseconds per frame.
func NewAnimation(framerateMs int) *Animation {
	return &Animation{framerateMs: framerateMs}
}

// Add appends a frame to the animation.
func (a *Animation) Add(frame *Label) {
	a.frames = append(a.frames, frame)
}

// IsSet reports whether the animation has any frames.
func (a *Animation) IsSet() bool { return len(a.frames) > 0 }

// FramerateMs returns the configured per-frame duration.
func (a *Animation) FramerateMs() int { return a.framerateMs }

// Get advances the animation if framerateMs has elapsed since the last
// advance, then returns the current frame.
func (a *Animation) Get(now time.Time) *Label {
	a.tick(now)
	return a.frames[a.current]
}

func (a *Animation) tick(now time.Time) {
	if a.updatedAt.IsZero() {
		a.updatedAt = now
		return
	}
	if now.Sub(a.updatedAt) < time.Duration(a.framerateMs)*time.Millisecond {
		return
	}
	a.current++
	if a.current >= len(a.frames) {
		a.current = 0
	}
	a.updatedAt = now
}
