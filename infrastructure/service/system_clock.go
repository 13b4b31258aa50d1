package service

import (
	"time"
)

// SystemClock implements the Clock interface using the process clock
type SystemClock struct{}

// NewSystemClock creates a new SystemClock
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current instant
func (c *SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock implements the Clock interface with a pinned instant.
// It anchors "today" in tests that exercise date-sensitive conversions.
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock creates a clock pinned to the given instant
func NewFixedClock(instant time.Time) *FixedClock {
	return &FixedClock{Instant: instant}
}

// Now returns the pinned instant
func (c *FixedClock) Now() time.Time {
	return c.Instant
}
