package loop

// FrameClock tracks the previous tick timestamp in milliseconds.
type FrameClock struct {
	last float64
	seen bool
}

// Advance records ts and returns the delta to the previous timestamp.
// The first call returns 0 since no earlier frame exists, and a timestamp
// that moves backwards yields 0 rather than a negative delta.
func (c *FrameClock) Advance(ts float64) float64 {
	if !c.seen {
		c.last, c.seen = ts, true
		return 0
	}
	delta := ts - c.last
	c.last = ts
	if delta < 0 {
		return 0
	}
	return delta
}

func (c FrameClock) Last() (float64, bool) {
	return c.last, c.seen
}
