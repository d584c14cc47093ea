package integrators

import "github.com/san-kum/dampsim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method with a fixed step.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	xNew, _ := classicRK4.step(dyn, x, u, t, dt)
	return xNew
}
