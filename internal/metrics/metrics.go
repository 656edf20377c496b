// Package metrics observes a running world after every step.
package metrics

import (
	"github.com/san-kum/marbles/internal/loop"
	"github.com/san-kum/marbles/internal/world"
)

type Metric interface {
	Name() string
	Observe(w *world.World, dt float64)
	Value() float64
	Reset()
}

// Recorder wraps a world as a loop.Engine, keeping every stepped delta and
// feeding the metrics after each successful step.
type Recorder struct {
	*world.World
	metrics []Metric
	deltas  []float64
}

var _ loop.Engine = (*Recorder)(nil)

func NewRecorder(w *world.World, metrics ...Metric) *Recorder {
	return &Recorder{World: w, metrics: metrics}
}

// Default returns the metrics reported by a headless run.
func Default() []Metric {
	return []Metric{NewFrameTime(), NewMaxDelta(), NewEnergyDrift(), NewContainment()}
}

func (r *Recorder) Step(dt float64) error {
	if err := r.World.Step(dt); err != nil {
		return err
	}
	r.deltas = append(r.deltas, dt)
	for _, m := range r.metrics {
		m.Observe(r.World, dt)
	}
	return nil
}

func (r *Recorder) Deltas() []float64 { return r.deltas }

func (r *Recorder) Results() map[string]float64 {
	out := make(map[string]float64, len(r.metrics))
	for _, m := range r.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
