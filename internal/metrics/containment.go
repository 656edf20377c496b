package metrics

import "github.com/san-kum/marbles/internal/world"

// Containment is the fraction of observations in which every marble center
// lies inside the world bounds.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(w *world.World, dt float64) {
	c.samples++
	width, height := w.Bounds()
	for _, m := range w.Marbles() {
		if m.X < 0 || m.X > width || m.Y < 0 || m.Y > height {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
