package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is the default instant for test clocks: a Monday, mid-month,
// in UTC.
func ReferenceTime() time.Time {
	return time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
}

// Clock provides a controllable time source for tests.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock set to start, or ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current instant tracked by the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// AdvanceDays moves the clock forward by whole calendar days.
func (c *Clock) AdvanceDays(days int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.AddDate(0, 0, days)
	return c.current
}
