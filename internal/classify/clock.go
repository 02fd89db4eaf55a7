// Package classify implements the heuristic classification pipeline:
// three independent classifiers, the score integrator with MECE validation,
// the headline override, and the classify entry point.
package classify

import "time"

// Clock abstracts wall-clock reads so the context classifier stays a pure
// function under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}
