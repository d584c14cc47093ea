package integrators

import (
	"math"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// RK45 is the Dormand-Prince 5(4) embedded pair with local extrapolation.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 5.0,
	}
}

// Step advances one fixed step of size dt, ignoring the error estimate.
func (r *RK45) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	xNew, _ := dormandPrince.step(dyn, x, u, t, dt)
	return xNew
}

// StepAdaptive attempts a step of size dt. On success it returns the new state
// and the suggested next step size. When the scaled error norm exceeds one it
// returns x unchanged, a reduced step size and dynamo.ErrStepRejected.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64, tol dynamo.Tolerance) (dynamo.State, float64, error) {
	xNew, errEst := dormandPrince.step(dyn, x, u, t, dt)
	if !xNew.IsValid() {
		return x, dt * r.minScale, dynamo.ErrInvalidState
	}

	errNorm := scaledNorm(errEst, x, xNew, tol)
	switch {
	case errNorm > 1:
		return x, dt * math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.25)), dynamo.ErrStepRejected
	case errNorm == 0:
		return xNew, dt * r.maxScale, nil
	}
	return xNew, dt * math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2)), nil
}

// scaledNorm is the RMS of errEst measured against tol at the larger of the
// old and new state magnitudes.
func scaledNorm(errEst, x, xNew dynamo.State, tol dynamo.Tolerance) float64 {
	if len(errEst) == 0 {
		return 0
	}
	sum := 0.0
	for i, e := range errEst {
		sc := tol.Abs + tol.Rel*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		if sc <= 0 {
			sc = math.SmallestNonzeroFloat64
		}
		sum += (e / sc) * (e / sc)
	}
	return math.Sqrt(sum / float64(len(errEst)))
}
