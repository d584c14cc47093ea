package integrators

import "github.com/san-kum/dampsim/internal/dynamo"

// tableau is an explicit Runge-Kutta scheme in Butcher form. e holds the
// weights of the embedded error estimate (b minus the lower-order weights)
// and is nil for schemes without one.
type tableau struct {
	name string
	a    [][]float64
	b    []float64
	c    []float64
	e    []float64
}

func (tb *tableau) stages() int { return len(tb.b) }

// step advances x by dt and, when the scheme has an embedded pair, returns
// the local error estimate.
func (tb *tableau) step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, dynamo.State) {
	n := len(x)
	s := tb.stages()
	k := make([]dynamo.State, s)
	stage := make(dynamo.State, n)

	for j := 0; j < s; j++ {
		copy(stage, x)
		for l, alj := range tb.a[j] {
			if alj == 0 {
				continue
			}
			for i := range stage {
				stage[i] += dt * alj * k[l][i]
			}
		}
		k[j] = dyn.Derive(stage, u, t+tb.c[j]*dt)
	}

	xNew := make(dynamo.State, n)
	copy(xNew, x)
	for j, bj := range tb.b {
		if bj == 0 {
			continue
		}
		for i := range xNew {
			xNew[i] += dt * bj * k[j][i]
		}
	}

	if tb.e == nil {
		return xNew, nil
	}
	errEst := make(dynamo.State, n)
	for j, ej := range tb.e {
		if ej == 0 {
			continue
		}
		for i := range errEst {
			errEst[i] += dt * ej * k[j][i]
		}
	}
	return xNew, errEst
}

var classicRK4 = &tableau{
	name: "rk4",
	a: [][]float64{
		{},
		{0.5},
		{0, 0.5},
		{0, 0, 1},
	},
	b: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
	c: []float64{0, 0.5, 0.5, 1},
}

// dormandPrince is the 5(4) pair. The seventh stage is evaluated at the new
// point and only feeds the error estimate.
var dormandPrince = &tableau{
	name: "rk45",
	a: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	},
	b: []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84, 0},
	c: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1},
	e: []float64{71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920, -17253.0 / 339200, 22.0 / 525, -1.0 / 40},
}
