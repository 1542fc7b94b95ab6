package clock

import "time"

// FakeClock is a Clock pinned to a chosen instant, so tests can assert
// exact billing dates instead of sleeping or comparing deltas.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, e.g. past a subscription period end.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
