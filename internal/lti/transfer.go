package lti

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// DefaultPoleTolerance is the relative distance below which two denominator
// roots are treated as one repeated pole.
const DefaultPoleTolerance = 1e-6

// TransferFunction is H(s) = N(s)/D(s) for a proper SISO system.
type TransferFunction struct {
	num Poly
	den Poly
}

// NewTransferFunction validates and normalises the coefficient slices, which
// are given in descending powers of s. The numerator may not exceed the
// denominator in degree.
func NewTransferFunction(num, den []float64) (*TransferFunction, error) {
	if len(num) == 0 || len(den) == 0 {
		return nil, fmt.Errorf("%w: empty coefficient list", dynamo.ErrInvalidParameter)
	}
	if !finiteCoefficients(num) || !finiteCoefficients(den) {
		return nil, fmt.Errorf("%w: non-finite transfer function coefficient", dynamo.ErrInvalidParameter)
	}
	d := Poly(den).Trim()
	if d.IsZero() {
		return nil, fmt.Errorf("%w: zero denominator", dynamo.ErrInvalidParameter)
	}
	n := Poly(num).Trim()
	if !n.IsZero() && n.Degree() > d.Degree() {
		return nil, fmt.Errorf("%w: numerator degree %d > denominator degree %d",
			dynamo.ErrImproperTransferFunction, n.Degree(), d.Degree())
	}
	return &TransferFunction{num: n, den: d}, nil
}

func (tf *TransferFunction) Num() []float64 { return append([]float64(nil), tf.num...) }
func (tf *TransferFunction) Den() []float64 { return append([]float64(nil), tf.den...) }

// Order is the degree of the denominator.
func (tf *TransferFunction) Order() int { return tf.den.Degree() }

func (tf *TransferFunction) Poles() ([]complex128, error) { return tf.den.Roots() }

func (tf *TransferFunction) Zeros() ([]complex128, error) {
	if tf.num.IsZero() {
		return nil, nil
	}
	return tf.num.Roots()
}

// Evaluate returns H(s).
func (tf *TransferFunction) Evaluate(s complex128) complex128 {
	return tf.num.Eval(s) / tf.den.Eval(s)
}

// FrequencyResponse returns |H(jω)| and arg H(jω) in radians.
func (tf *TransferFunction) FrequencyResponse(omega float64) (mag, phase float64) {
	h := tf.Evaluate(complex(0, omega))
	return cmplx.Abs(h), cmplx.Phase(h)
}

// DCGain is H(0). It is infinite when the denominator has a root at zero.
func (tf *TransferFunction) DCGain() float64 {
	d := tf.den.EvalReal(0)
	n := tf.num.EvalReal(0)
	if d == 0 {
		if n == 0 {
			return math.NaN()
		}
		return math.Inf(int(math.Copysign(1, n)))
	}
	return n / d
}

// StepResponse samples the unit-step response on grid. The response is the
// inverse Laplace transform of N(s)/(s·D(s)), evaluated in closed form from
// its partial-fraction expansion. Samples at negative times are zero.
func (tf *TransferFunction) StepResponse(grid dynamo.TimeGrid) ([]float64, error) {
	if grid.Len() < 2 {
		return nil, fmt.Errorf("%w: grid has %d samples", dynamo.ErrInvalidGrid, grid.Len())
	}

	// N(s)/(s·D(s)) is strictly proper for any proper H, so the direct
	// feedthrough of an equal-degree H shows up as part of the residue at 0.
	roots, err := tf.den.Roots()
	if err != nil {
		return nil, err
	}
	roots = append(roots, 0)

	terms, err := partialFractions(tf.num, tf.den[0], clusterRoots(roots, DefaultPoleTolerance))
	if err != nil {
		return nil, err
	}

	out := make([]float64, grid.Len())
	for i := range out {
		t := grid.At(i)
		if t < 0 {
			continue
		}
		y := terms.eval(t)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, &dynamo.SimulationError{Step: i, Time: t, Wrapped: dynamo.ErrInvalidState}
		}
		out[i] = y
	}
	return out, nil
}

// ToStateSpace returns the controllable canonical realisation of H.
func (tf *TransferFunction) ToStateSpace() (*StateSpace, error) {
	n := tf.den.Degree()
	if n == 0 {
		return nil, fmt.Errorf("%w: static gain has no state-space realisation", dynamo.ErrInvalidParameter)
	}

	lead := tf.den[0]
	den := make([]float64, n+1)
	for i, c := range tf.den {
		den[i] = c / lead
	}
	num := make([]float64, n+1)
	offset := n + 1 - len(tf.num)
	for i, c := range tf.num {
		num[offset+i] = c / lead
	}

	a := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		a.Set(0, j, -den[j+1])
	}
	for i := 1; i < n; i++ {
		a.Set(i, i-1, 1)
	}

	b := mat.NewDense(n, 1, nil)
	b.Set(0, 0, 1)

	d := num[0]
	c := mat.NewDense(1, n, nil)
	for j := 0; j < n; j++ {
		c.Set(0, j, num[j+1]-d*den[j+1])
	}

	return NewStateSpace(a, b, c, mat.NewDense(1, 1, []float64{d}))
}

func (tf *TransferFunction) String() string {
	return fmt.Sprintf("H(s) = %s / %s", formatPoly(tf.num), formatPoly(tf.den))
}

func formatPoly(p Poly) string {
	out := ""
	n := len(p) - 1
	for i, c := range p {
		if c == 0 && n > 0 {
			continue
		}
		pow := n - i
		term := fmt.Sprintf("%g", math.Abs(c))
		switch {
		case pow == 1:
			term += "s"
		case pow > 1:
			term += fmt.Sprintf("s^%d", pow)
		}
		switch {
		case out == "" && c < 0:
			out = "-" + term
		case out == "":
			out = term
		case c < 0:
			out += " - " + term
		default:
			out += " + " + term
		}
	}
	if out == "" {
		return "0"
	}
	return "(" + out + ")"
}
