// Package loop provides the frame-loop scheduling helpers used by the viewer.
// Nothing here is safe for concurrent use; the loop runs on one thread.
package loop

import "time"

// Ticker converts elapsed wall time into a whole number of fixed ticks.
type Ticker struct {
	interval time.Duration
	maxSteps int
	acc      time.Duration
}

// NewTicker creates a ticker firing every interval, at most maxSteps times
// per Advance. Values below 1 are raised to 1ns and 1 step.
func NewTicker(interval time.Duration, maxSteps int) *Ticker {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Ticker{interval: interval, maxSteps: maxSteps}
}

// Interval returns the tick interval.
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Advance adds elapsed time and returns how many ticks are due. When more
// than maxSteps are due the backlog is dropped, keeping only the fraction
// of the current interval, so a stalled frame does not cause a burst.
func (t *Ticker) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		t.acc += elapsed
	}

	steps := int(t.acc / t.interval)
	if steps > t.maxSteps {
		steps = t.maxSteps
		t.acc %= t.interval
		return steps
	}
	t.acc -= time.Duration(steps) * t.interval
	return steps
}

// Until returns the time left before the next tick is due.
func (t *Ticker) Until() time.Duration {
	return t.interval - t.acc
}

// RedrawFlag records redraw requests between frames.
type RedrawFlag struct {
	pending bool
}

// Request marks a redraw as pending. Its signature matches the controller's
// redraw sink.
func (f *RedrawFlag) Request() {
	f.pending = true
}

// Take reports whether a redraw was pending and clears it.
func (f *RedrawFlag) Take() bool {
	p := f.pending
	f.pending = false
	return p
}
