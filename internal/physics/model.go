package physics

import (
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/lti"
)

// Model is a second-order linear system a2·y'' + a1·y' + a0·y = f(u, u').
type Model interface {
	dynamo.System

	Name() string
	OutputLabel() string

	// Characteristic returns [a2, a1, a0].
	Characteristic() lti.Poly
	TransferFunction() (*lti.TransferFunction, error)
	StateSpace() (*lti.StateSpace, error)

	// InitialState is the state at t = 0+ when the input switches on with
	// value u0 from rest.
	InitialState(u0 float64) dynamo.State

	Damping() float64
	CriticalDamping() float64
	WithDamping(c float64) (Model, error)

	// GetParams reports the physical parameters by name for log fields.
	GetParams() map[string]float64
}
