package lti

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// residueTerm is c/(s-p)^k, which inverts to c·t^(k-1)/(k-1)!·e^(pt).
type residueTerm struct {
	pole  complex128
	order int
	coef  complex128
}

type expansion []residueTerm

func (e expansion) eval(t float64) float64 {
	var sum complex128
	for _, term := range e {
		scale := term.coef * cmplx.Exp(term.pole*complex(t, 0))
		if term.order > 1 {
			scale *= complex(math.Pow(t, float64(term.order-1))/factorial(term.order-1), 0)
		}
		sum += scale
	}
	return real(sum)
}

// partialFractions expands num(s) / (lead·Π(s-p)^r) for a strictly proper
// ratio. For each pole p of multiplicity r, G(s) = (s-p)^r·F(s) is expanded
// as a Taylor series around p; the coefficient of h^(r-k) is the residue of
// the 1/(s-p)^k term.
func partialFractions(num Poly, lead float64, poles []pole) (expansion, error) {
	total := 0
	for _, p := range poles {
		total += p.multiplicity
	}
	if num.Degree() >= total && !num.IsZero() {
		return nil, fmt.Errorf("%w: expansion requires a strictly proper ratio", dynamo.ErrImproperTransferFunction)
	}

	n := toComplex(num)
	var terms expansion
	for j, pj := range poles {
		rest := cpoly{complex(lead, 0)}
		for i, pi := range poles {
			if i == j {
				continue
			}
			for k := 0; k < pi.multiplicity; k++ {
				rest = rest.mul(cpoly{1, -pi.value})
			}
		}

		r := pj.multiplicity
		g := seriesDivide(n.taylor(pj.value, r), rest.taylor(pj.value, r))
		if g == nil {
			return nil, fmt.Errorf("%w: singular partial fraction at pole %v", dynamo.ErrIntegrationFailure, pj.value)
		}
		for k := 1; k <= r; k++ {
			terms = append(terms, residueTerm{pole: pj.value, order: k, coef: g[r-k]})
		}
	}
	return terms, nil
}

// seriesDivide returns the first len(a) coefficients of a(h)/b(h) for power
// series in ascending order. It returns nil when b(0) is zero.
func seriesDivide(a, b []complex128) []complex128 {
	if len(b) == 0 || b[0] == 0 {
		return nil
	}
	out := make([]complex128, len(a))
	for k := range a {
		acc := a[k]
		for i := 1; i <= k && i < len(b); i++ {
			acc -= b[i] * out[k-i]
		}
		out[k] = acc / b[0]
	}
	return out
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
