// Package testutil provides shared helpers for tests: a controllable clock,
// a scripted AI streamer, and integration helpers that skip automatically
// when required environment variables are not set.
package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is the instant a Clock starts at when none is given.
func ReferenceTime() time.Time {
	return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
}

// Clock is a controllable time source. Pass Clock.Now wherever a component
// accepts a func() time.Time.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock set to start, or to ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the clock's current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
