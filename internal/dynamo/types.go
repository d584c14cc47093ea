package dynamo

import "math"

// State is the integration state vector of a system.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Control carries the external input of a system. Second-order models read
// the input value at index 0 and its time derivative at index 1.
type Control []float64

// Value returns u[i], or 0 when the control is shorter than i+1.
func (u Control) Value(i int) float64 {
	if i < len(u) {
		return u[i]
	}
	return 0
}

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// Tolerance is a mixed absolute/relative error bound: a component error e is
// acceptable when |e| <= Abs + Rel*|x|.
type Tolerance struct {
	Rel float64
	Abs float64
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, u Control, t, dt float64, tol Tolerance) (State, float64, error)
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Dt            float64
	Tolerance     Tolerance
	MaxDt         float64
	MinDt         float64
	MaxSteps      int
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-3,
		Tolerance:     Tolerance{Rel: 1e-8, Abs: 1e-10},
		MaxDt:         0,
		MinDt:         1e-12,
		MaxSteps:      1_000_000,
		Adaptive:      true,
		ValidateState: true,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
