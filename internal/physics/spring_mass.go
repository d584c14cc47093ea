package physics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/lti"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 2.0
)

// MassSpringDamper is m·x'' + b·x' + k·x = F(t) with state (x, v).
type MassSpringDamper struct {
	mass      float64
	damping   float64
	stiffness float64
}

func NewMassSpringDamper(mass, damping, stiffness float64) (*MassSpringDamper, error) {
	if err := dynamo.RequirePositive("mass", mass); err != nil {
		return nil, err
	}
	if err := dynamo.RequireNonNegative("damping", damping); err != nil {
		return nil, err
	}
	if err := dynamo.RequirePositive("stiffness", stiffness); err != nil {
		return nil, err
	}
	return &MassSpringDamper{mass: mass, damping: damping, stiffness: stiffness}, nil
}

func (s *MassSpringDamper) Name() string        { return "spring_mass" }
func (s *MassSpringDamper) OutputLabel() string { return "Displacement" }
func (s *MassSpringDamper) StateDim() int       { return 2 }
func (s *MassSpringDamper) ControlDim() int     { return 1 }

func (s *MassSpringDamper) Mass() float64      { return s.mass }
func (s *MassSpringDamper) Damping() float64   { return s.damping }
func (s *MassSpringDamper) Stiffness() float64 { return s.stiffness }

func (s *MassSpringDamper) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	pos, vel := x[0], x[1]
	acc := (u.Value(0) - s.damping*vel - s.stiffness*pos) / s.mass
	return dynamo.State{vel, acc}
}

func (s *MassSpringDamper) Characteristic() lti.Poly {
	return lti.Poly{s.mass, s.damping, s.stiffness}
}

// TransferFunction is X(s)/F(s) = 1/(m·s² + b·s + k).
func (s *MassSpringDamper) TransferFunction() (*lti.TransferFunction, error) {
	return lti.NewTransferFunction([]float64{1}, s.Characteristic())
}

// StateSpace uses state (x, v) and outputs the displacement.
func (s *MassSpringDamper) StateSpace() (*lti.StateSpace, error) {
	m, b, k := s.mass, s.damping, s.stiffness
	return lti.NewStateSpace(
		mat.NewDense(2, 2, []float64{0, 1, -k / m, -b / m}),
		mat.NewDense(2, 1, []float64{0, 1 / m}),
		mat.NewDense(1, 2, []float64{1, 0}),
		mat.NewDense(1, 1, []float64{0}),
	)
}

// InitialState is rest at the origin; a force step does not jump x or v.
func (s *MassSpringDamper) InitialState(u0 float64) dynamo.State {
	return dynamo.State{0, 0}
}

// CriticalDamping is b_c = 2·√(m·k).
func (s *MassSpringDamper) CriticalDamping() float64 {
	return 2 * math.Sqrt(s.mass*s.stiffness)
}

func (s *MassSpringDamper) WithDamping(c float64) (Model, error) {
	return NewMassSpringDamper(s.mass, c, s.stiffness)
}

func (s *MassSpringDamper) Energy(x dynamo.State) float64 {
	return 0.5*s.mass*x[1]*x[1] + 0.5*s.stiffness*x[0]*x[0]
}

func (s *MassSpringDamper) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.mass,
		"damping":   s.damping,
		"stiffness": s.stiffness,
	}
}
