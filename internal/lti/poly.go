package lti

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// Poly is a real polynomial with coefficients in descending powers.
type Poly []float64

// Trim drops leading zero coefficients. The zero polynomial trims to Poly{0}.
func (p Poly) Trim() Poly {
	for i, c := range p {
		if c != 0 {
			return append(Poly(nil), p[i:]...)
		}
	}
	return Poly{0}
}

func (p Poly) Degree() int { return len(p.Trim()) - 1 }

func (p Poly) IsZero() bool {
	for _, c := range p {
		if c != 0 {
			return false
		}
	}
	return true
}

// Eval evaluates p at a complex point using Horner's scheme.
func (p Poly) Eval(s complex128) complex128 {
	var acc complex128
	for _, c := range p {
		acc = acc*s + complex(c, 0)
	}
	return acc
}

// EvalReal evaluates p at a real point.
func (p Poly) EvalReal(x float64) float64 {
	acc := 0.0
	for _, c := range p {
		acc = acc*x + c
	}
	return acc
}

func (p Poly) Derivative() Poly {
	q := p.Trim()
	n := len(q) - 1
	if n == 0 {
		return Poly{0}
	}
	d := make(Poly, n)
	for i := 0; i < n; i++ {
		d[i] = q[i] * float64(n-i)
	}
	return d
}

// Roots returns the roots of p as eigenvalues of its companion matrix.
func (p Poly) Roots() ([]complex128, error) {
	q := p.Trim()
	if q.IsZero() {
		return nil, fmt.Errorf("%w: roots of the zero polynomial", dynamo.ErrInvalidParameter)
	}
	n := len(q) - 1
	switch n {
	case 0:
		return nil, nil
	case 1:
		return []complex128{complex(-q[1]/q[0], 0)}, nil
	}

	comp := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		comp.Set(0, j, -q[j+1]/q[0])
	}
	for i := 1; i < n; i++ {
		comp.Set(i, i-1, 1)
	}
	return eigenvalues(comp)
}

func eigenvalues(a mat.Matrix) ([]complex128, error) {
	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigenvalue decomposition did not converge", dynamo.ErrIntegrationFailure)
	}
	return eig.Values(nil), nil
}

func finiteCoefficients(p []float64) bool {
	for _, c := range p {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// cpoly is a complex polynomial in descending powers.
type cpoly []complex128

func (p cpoly) mul(q cpoly) cpoly {
	out := make(cpoly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			out[i+j] += a * b
		}
	}
	return out
}

// taylor returns the first k coefficients of p(z+h) in ascending powers of h,
// that is p^(j)(z)/j! for j < k, by repeated synthetic division.
func (p cpoly) taylor(z complex128, k int) []complex128 {
	work := append(cpoly(nil), p...)
	out := make([]complex128, k)
	for j := 0; j < k && len(work) > 0; j++ {
		for i := 1; i < len(work); i++ {
			work[i] += work[i-1] * z
		}
		out[j] = work[len(work)-1]
		work = work[:len(work)-1]
	}
	return out
}

func toComplex(p Poly) cpoly {
	out := make(cpoly, len(p))
	for i, c := range p {
		out[i] = complex(c, 0)
	}
	return out
}

// pole is a root of the denominator together with its multiplicity.
type pole struct {
	value        complex128
	multiplicity int
}

// clusterRoots groups roots closer than tol·max(1,|r|) and replaces each group
// by its mean. Eigenvalue solvers split a repeated root of multiplicity r by
// roughly eps^(1/r), which this tolerance absorbs.
func clusterRoots(roots []complex128, tol float64) []pole {
	used := make([]bool, len(roots))
	var poles []pole
	for i, r := range roots {
		if used[i] {
			continue
		}
		used[i] = true
		sum := r
		count := 1
		for j := i + 1; j < len(roots); j++ {
			if used[j] {
				continue
			}
			if cmplx.Abs(roots[j]-r) <= tol*math.Max(1, cmplx.Abs(r)) {
				used[j] = true
				sum += roots[j]
				count++
			}
		}
		poles = append(poles, pole{value: sum / complex(float64(count), 0), multiplicity: count})
	}
	return poles
}
