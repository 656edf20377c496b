package metrics

import "github.com/san-kum/marbles/internal/world"

// FrameTime is the mean delta of stepped frames in milliseconds.
type FrameTime struct {
	name    string
	sum     float64
	samples int
}

func NewFrameTime() *FrameTime {
	return &FrameTime{name: "frame_ms"}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(w *world.World, dt float64) {
	f.sum += dt
	f.samples++
}

func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.sum / float64(f.samples)
}

func (f *FrameTime) Reset() {
	f.sum = 0
	f.samples = 0
}

// MaxDelta is the longest single delta seen.
type MaxDelta struct {
	name string
	max  float64
}

func NewMaxDelta() *MaxDelta {
	return &MaxDelta{name: "max_frame_ms"}
}

func (m *MaxDelta) Name() string { return m.name }

func (m *MaxDelta) Observe(w *world.World, dt float64) {
	m.max = max(m.max, dt)
}

func (m *MaxDelta) Value() float64 { return m.max }

func (m *MaxDelta) Reset() { m.max = 0 }
