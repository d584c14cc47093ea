package physics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/lti"
)

const (
	DefaultInductance  = 0.5
	DefaultCapacitance = 0.01
)

// SeriesRLC is the loop current of a series RLC circuit driven by a source
// voltage V(t): L·i'' + R·i' + i/C = dV/dt. The integration state is (i, i').
type SeriesRLC struct {
	inductance  float64
	resistance  float64
	capacitance float64
}

func NewSeriesRLC(inductance, resistance, capacitance float64) (*SeriesRLC, error) {
	if err := dynamo.RequirePositive("inductance", inductance); err != nil {
		return nil, err
	}
	if err := dynamo.RequireNonNegative("resistance", resistance); err != nil {
		return nil, err
	}
	if err := dynamo.RequirePositive("capacitance", capacitance); err != nil {
		return nil, err
	}
	return &SeriesRLC{inductance: inductance, resistance: resistance, capacitance: capacitance}, nil
}

func (c *SeriesRLC) Name() string        { return "rlc" }
func (c *SeriesRLC) OutputLabel() string { return "Current" }
func (c *SeriesRLC) StateDim() int       { return 2 }
func (c *SeriesRLC) ControlDim() int     { return 2 }

func (c *SeriesRLC) Inductance() float64  { return c.inductance }
func (c *SeriesRLC) Resistance() float64  { return c.resistance }
func (c *SeriesRLC) Capacitance() float64 { return c.capacitance }
func (c *SeriesRLC) Damping() float64     { return c.resistance }

// Derive reads the source slope dV/dt from u[1].
func (c *SeriesRLC) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	i, di := x[0], x[1]
	d2i := (u.Value(1) - c.resistance*di - i/c.capacitance) / c.inductance
	return dynamo.State{di, d2i}
}

func (c *SeriesRLC) Characteristic() lti.Poly {
	return lti.Poly{c.inductance, c.resistance, 1 / c.capacitance}
}

// TransferFunction is I(s)/V(s) = s/(L·s² + R·s + 1/C).
func (c *SeriesRLC) TransferFunction() (*lti.TransferFunction, error) {
	return lti.NewTransferFunction([]float64{1, 0}, c.Characteristic())
}

// StateSpace uses state (q, i) and outputs the current.
func (c *SeriesRLC) StateSpace() (*lti.StateSpace, error) {
	l, r, cp := c.inductance, c.resistance, c.capacitance
	return lti.NewStateSpace(
		mat.NewDense(2, 2, []float64{0, 1, -1 / (l * cp), -r / l}),
		mat.NewDense(2, 1, []float64{0, 1 / l}),
		mat.NewDense(1, 2, []float64{0, 1}),
		mat.NewDense(1, 1, []float64{0}),
	)
}

// InitialState accounts for the source switching from 0 to u0 at t = 0:
// the current is continuous through the inductor but L·i'(0+) = u0.
func (c *SeriesRLC) InitialState(u0 float64) dynamo.State {
	return dynamo.State{0, u0 / c.inductance}
}

// CriticalDamping is the critical resistance R_c = 2·√(L/C).
func (c *SeriesRLC) CriticalDamping() float64 {
	return 2 * math.Sqrt(c.inductance/c.capacitance)
}

func (c *SeriesRLC) WithDamping(r float64) (Model, error) {
	return NewSeriesRLC(c.inductance, r, c.capacitance)
}

func (c *SeriesRLC) GetParams() map[string]float64 {
	return map[string]float64{
		"inductance":  c.inductance,
		"resistance":  c.resistance,
		"capacitance": c.capacitance,
	}
}
