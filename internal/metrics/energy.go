package metrics

import (
	"math"

	"github.com/san-kum/marbles/internal/world"
)

// KineticEnergy sums v^2/2 over all marbles, taking unit mass.
func KineticEnergy(marbles []world.Marble) float64 {
	var e float64
	for _, m := range marbles {
		e += 0.5 * (m.VX*m.VX + m.VY*m.VY)
	}
	return e
}

// EnergyDrift is the largest relative change of kinetic energy since the
// first observation. Wall bounces and elastic collisions keep it near zero.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *world.World, dt float64) {
	energy := KineticEnergy(w.Marbles())
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / e.initial
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
