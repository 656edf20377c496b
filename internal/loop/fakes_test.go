package loop

import (
	"fmt"
	"time"
)

// recorder is shared by the fake engine and surface so tests can assert the
// relative order of their calls.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) reset() { r.calls = nil }

type fakeEngine struct {
	rec       *recorder
	entities  [][2]float64
	steps     []float64
	resizes   []Viewport
	stepErr   error
	drawErr   error
	resizeErr error
}

func (e *fakeEngine) Step(deltaMs float64) error {
	e.rec.add("step %g", deltaMs)
	e.steps = append(e.steps, deltaMs)
	return e.stepErr
}

func (e *fakeEngine) Draw(p Painter) error {
	e.rec.add("draw")
	if e.drawErr != nil {
		return e.drawErr
	}
	for _, pos := range e.entities {
		p.Paint(pos[0], pos[1])
	}
	return nil
}

func (e *fakeEngine) Resize(width, height int) error {
	e.rec.add("engine resize %dx%d", width, height)
	e.resizes = append(e.resizes, Viewport{width, height})
	return e.resizeErr
}

type fakeSurface struct {
	rec     *recorder
	size    Viewport
	sprites [][2]float64
}

func (s *fakeSurface) Resize(width, height int) {
	s.rec.add("surface resize %dx%d", width, height)
	s.size = Viewport{width, height}
}

func (s *fakeSurface) Clear() {
	s.rec.add("clear")
	s.sprites = nil
}

func (s *fakeSurface) DrawSprite(x, y float64) {
	s.rec.add("sprite %g,%g", x, y)
	s.sprites = append(s.sprites, [2]float64{x, y})
}

type hostBounds struct {
	w, h  int
	reads int
}

func (b *hostBounds) Bounds() (int, int) {
	b.reads++
	return b.w, b.h
}

// fakeClock is a virtual timer source. Advance fires due timers in order on
// the calling goroutine.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		c.now = next.at
		next.fired = true
		next.f()
	}
	c.now = target
}

func (c *fakeClock) Live() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// manualRequester queues frame callbacks until the test fires them.
type manualRequester struct {
	pending   []*frameRequest
	requested int
}

type frameRequest struct {
	fn        func(float64)
	cancelled bool
}

func (r *manualRequester) RequestFrame(fn func(ts float64)) CancelFunc {
	req := &frameRequest{fn: fn}
	r.pending = append(r.pending, req)
	r.requested++
	return func() { req.cancelled = true }
}

// Frame fires the oldest outstanding request and reports whether one existed.
func (r *manualRequester) Frame(ts float64) bool {
	for len(r.pending) > 0 {
		req := r.pending[0]
		r.pending = r.pending[1:]
		if req.cancelled {
			continue
		}
		req.fn(ts)
		return true
	}
	return false
}

func (r *manualRequester) Outstanding() int {
	n := 0
	for _, req := range r.pending {
		if !req.cancelled {
			n++
		}
	}
	return n
}
