// Package window provides the timed-window value type shared by the lecture
// session clock, the classwork submission gate and the exam countdown. A
// window is anchored to an absolute start instant so that every consumer can
// recompute its state from persisted data after a restart.
package window

import "time"

// Clock supplies the current time. Services hold one so tests can pin it.
type Clock func() time.Time

// Window is a bounded interval starting at StartedAt and lasting Duration.
// Grace, when non-zero, marks the tail segment of the interval during which
// gated actions (classwork forms) unlock.
type Window struct {
	StartedAt time.Time
	Duration  time.Duration
	Grace     time.Duration
}

// Elapsed returns how much of the window has passed at now.
func (w Window) Elapsed(now time.Time) time.Duration {
	return now.Sub(w.StartedAt)
}

// Remaining returns the time left before the window closes, never negative.
func (w Window) Remaining(now time.Time) time.Duration {
	remaining := w.Duration - w.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsOpen reports whether now falls inside the window.
func (w Window) IsOpen(now time.Time) bool {
	elapsed := w.Elapsed(now)
	return elapsed >= 0 && elapsed < w.Duration
}

// InGrace reports whether now falls inside the final Grace segment.
func (w Window) InGrace(now time.Time) bool {
	if !w.IsOpen(now) {
		return false
	}
	return w.Remaining(now) <= w.Grace
}

// Expired reports whether the window has fully elapsed.
func (w Window) Expired(now time.Time) bool {
	return w.Elapsed(now) >= w.Duration
}
