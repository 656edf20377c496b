package world

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/marbles/internal/loop"
)

const (
	DefaultWidth     = 500
	DefaultHeight    = 500
	DefaultCount     = 25
	DefaultRadius    = 10.0
	DefaultMaxSpeed  = 0.25
	DefaultMaxStepMs = 100.0
	DefaultSubsteps  = 10

	// maxSubsteps bounds the work done for one oversized delta. Time beyond
	// maxSubsteps * maxStep is dropped.
	maxSubsteps = 1000
)

var (
	// ErrInvalidBounds indicates a negative width or height.
	ErrInvalidBounds = errors.New("world: invalid bounds")

	// ErrUnstable indicates a marble left the finite plane.
	ErrUnstable = errors.New("world: simulation unstable (NaN or Inf detected)")
)

// Marble is one simulated body: center position and velocity.
type Marble struct {
	X, Y   float64
	VX, VY float64
}

type World struct {
	width, height float64
	radius        float64
	maxStep       float64
	substeps      int
	marbles       []Marble
}

type options struct {
	width, height int
	count         int
	radius        float64
	maxSpeed      float64
	maxStep       float64
	substeps      int
	seed          int64
}

type Option func(*options)

// WithBounds sets the initial bounds. Without it the world is 500x500.
func WithBounds(width, height int) Option {
	return func(o *options) { o.width, o.height = width, height }
}

func WithMarbles(n int) Option {
	return func(o *options) { o.count = n }
}

func WithRadius(r float64) Option {
	return func(o *options) { o.radius = r }
}

// WithMaxSpeed sets the largest initial speed per axis, in px/ms.
func WithMaxSpeed(v float64) Option {
	return func(o *options) { o.maxSpeed = v }
}

func WithSubsteps(maxStepMs float64, substeps int) Option {
	return func(o *options) { o.maxStep, o.substeps = maxStepMs, substeps }
}

func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// New scatters marbles uniformly inside the bounds with random velocities.
func New(opts ...Option) (*World, error) {
	o := options{
		width:    DefaultWidth,
		height:   DefaultHeight,
		count:    DefaultCount,
		radius:   DefaultRadius,
		maxSpeed: DefaultMaxSpeed,
		maxStep:  DefaultMaxStepMs,
		substeps: DefaultSubsteps,
		seed:     1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width < 0 || o.height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidBounds, o.width, o.height)
	}
	if o.count < 0 || o.radius <= 0 || o.maxStep <= 0 || o.substeps < 2 {
		return nil, fmt.Errorf("world: invalid options (count=%d radius=%g max step=%g substeps=%d)",
			o.count, o.radius, o.maxStep, o.substeps)
	}

	w := &World{
		width:    float64(o.width),
		height:   float64(o.height),
		radius:   o.radius,
		maxStep:  o.maxStep,
		substeps: o.substeps,
		marbles:  make([]Marble, o.count),
	}
	rng := rand.New(rand.NewSource(o.seed))
	for i := range w.marbles {
		w.marbles[i] = Marble{
			X:  w.place(rng.Float64(), w.width),
			Y:  w.place(rng.Float64(), w.height),
			VX: (2*rng.Float64() - 1) * o.maxSpeed,
			VY: (2*rng.Float64() - 1) * o.maxSpeed,
		}
	}
	return w, nil
}

func (w *World) place(u, extent float64) float64 {
	span := extent - 2*w.radius
	if span <= 0 {
		return extent / 2
	}
	return w.radius + u*span
}

// substepCount grows by the substep factor until each piece of dt fits in
// maxStep, capped at maxSubsteps.
func (w *World) substepCount(dt float64) int {
	n := 1
	for dt/float64(n) > w.maxStep && n < maxSubsteps {
		n = min(n*w.substeps, maxSubsteps)
	}
	return n
}

// Step advances the world by dt milliseconds.
func (w *World) Step(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: delta %v", ErrUnstable, dt)
	}
	if dt <= 0 {
		return nil
	}

	n := w.substepCount(dt)
	h := math.Min(dt/float64(n), w.maxStep)
	for i := 0; i < n; i++ {
		w.advance(h)
	}

	for i, m := range w.marbles {
		if !finite(m.X) || !finite(m.Y) || !finite(m.VX) || !finite(m.VY) {
			return fmt.Errorf("%w: marble %d at (%v, %v)", ErrUnstable, i, m.X, m.Y)
		}
	}
	return nil
}

func (w *World) advance(dt float64) {
	for i := range w.marbles {
		w.move(&w.marbles[i], dt)
	}
	for i := range w.marbles {
		for j := 0; j < i; j++ {
			collide(&w.marbles[j], &w.marbles[i], w.radius)
		}
	}
}

// move integrates one marble and reflects it off the walls.
func (w *World) move(m *Marble, dt float64) {
	m.X, m.VX = bounce(m.X+m.VX*dt, m.VX, w.radius, w.width-w.radius)
	m.Y, m.VY = bounce(m.Y+m.VY*dt, m.VY, w.radius, w.height-w.radius)
}

func bounce(p, v, lo, hi float64) (float64, float64) {
	if p > hi && v > 0 {
		return hi, -v
	}
	if p < lo && v < 0 {
		return lo, -v
	}
	return p, v
}

// collide resolves an elastic collision between two equal marbles by
// exchanging the velocity components along the line between their centers.
// Overlapping marbles are pushed apart even when they already separate.
func collide(a, b *Marble, r float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	dsq := dx*dx + dy*dy
	minDist := 2 * r
	if dsq >= minDist*minDist || dsq == 0 {
		return
	}

	inv := 1 / dsq
	// (dy, -dx) is orthogonal to d and has the same length.
	aPar, aOrt := (dx*a.VX+dy*a.VY)*inv, (dy*a.VX-dx*a.VY)*inv
	bPar, bOrt := (dx*b.VX+dy*b.VY)*inv, (dy*b.VX-dx*b.VY)*inv

	if aPar > bPar {
		a.VX, a.VY = bPar*dx+aOrt*dy, bPar*dy-aOrt*dx
		b.VX, b.VY = aPar*dx+bOrt*dy, aPar*dy-bOrt*dx
	}

	dist := math.Sqrt(dsq)
	push := (minDist - dist) / 2 / dist
	a.X, a.Y = a.X-push*dx, a.Y-push*dy
	b.X, b.Y = b.X+push*dx, b.Y+push*dy
}

// Draw paints every marble at the top-left corner of its bounding square.
func (w *World) Draw(p loop.Painter) error {
	for _, m := range w.marbles {
		p.Paint(m.X-w.radius, m.Y-w.radius)
	}
	return nil
}

// Resize changes the bounds used by later steps. Marbles outside the new
// bounds walk back in through the wall reflection.
func (w *World) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBounds, width, height)
	}
	w.width, w.height = float64(width), float64(height)
	return nil
}

func (w *World) Bounds() (float64, float64) { return w.width, w.height }

func (w *World) Radius() float64 { return w.radius }

// Marbles returns a copy of the current marble state.
func (w *World) Marbles() []Marble {
	return append([]Marble(nil), w.marbles...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
