package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dampsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int   { return 2 }
func (h *harmonicOscillator) ControlDim() int { return 0 }

func (h *harmonicOscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

var tightTol = dynamo.Tolerance{Rel: 1e-8, Abs: 1e-10}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, nil, float64(i)*dt, dt)
	}

	finalEnergy := dyn.Energy(x)
	drift := math.Abs(finalEnergy-initialEnergy) / initialEnergy

	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AdaptiveStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(dyn, x0, nil, 0, 0.01, tightTol)

	if err != nil {
		t.Errorf("StepAdaptive returned error: %v", err)
	}

	if !x.IsValid() {
		t.Error("StepAdaptive produced invalid state")
	}

	if newDt <= 0.01 {
		t.Errorf("a small accurate step should grow, got dt=%g", newDt)
	}
}

func TestRK45_AdaptiveRejectsLargeStep(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x, newDt, err := integrator.StepAdaptive(dyn, x0, nil, 0, 2.0, tightTol)
	if !errors.Is(err, dynamo.ErrStepRejected) {
		t.Fatalf("expected ErrStepRejected, got %v", err)
	}
	if x[0] != x0[0] || x[1] != x0[1] {
		t.Error("rejected step must return the original state")
	}
	if newDt >= 2.0 || newDt <= 0 {
		t.Errorf("rejected step should shrink dt, got %g", newDt)
	}
}

func TestRK45_AdaptiveConvergesToExact(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	tt, dt, end := 0.0, 0.1, 5.0
	for tt < end {
		h := math.Min(dt, end-tt)
		xNew, next, err := integrator.StepAdaptive(dyn, x, nil, tt, h, tightTol)
		if errors.Is(err, dynamo.ErrStepRejected) {
			dt = next
			continue
		}
		if err != nil {
			t.Fatalf("step failed: %v", err)
		}
		x, tt, dt = xNew, tt+h, next
	}

	if math.Abs(x[0]-math.Cos(end)) > 1e-6 {
		t.Errorf("x(5) = %.9f, want %.9f", x[0], math.Cos(end))
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, nil, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, nil, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Error("RK45 should be more accurate than RK4 at equal step size")
	}
}
