package metrics

import (
	"math"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// EnergyTrace records the stored energy of a Hamiltonian system at every
// simulator sample. It is attached as a dynamo.Observer.
type EnergyTrace struct {
	sys     dynamo.Hamiltonian
	initial float64
	final   float64
	peak    float64
	samples int
}

func NewEnergyTrace(sys dynamo.Hamiltonian) *EnergyTrace {
	return &EnergyTrace{sys: sys}
}

func (e *EnergyTrace) OnStep(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
		e.peak = energy
	}
	e.final = energy
	e.peak = math.Max(e.peak, energy)
	e.samples++
}

func (e *EnergyTrace) Initial() float64 { return e.initial }
func (e *EnergyTrace) Final() float64   { return e.final }
func (e *EnergyTrace) Peak() float64    { return e.peak }
func (e *EnergyTrace) Samples() int     { return e.samples }

func (e *EnergyTrace) Reset() {
	e.initial, e.final, e.peak, e.samples = 0, 0, 0, 0
}
