package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/lti"
)

type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

// criticalTolerance is the relative size of the discriminant below which the
// characteristic roots count as repeated.
const criticalTolerance = 1e-9

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	}
	return fmt.Sprintf("regime(%d)", int(r))
}

// Title is the capitalised name used in plot legends.
func (r Regime) Title() string {
	switch r {
	case Underdamped:
		return "Underdamped"
	case CriticallyDamped:
		return "Critically Damped"
	case Overdamped:
		return "Overdamped"
	}
	return r.String()
}

// ParseRegime recognises labels such as "Under Damp", "critically-damped"
// or "Overdamped". It reports false when the label names no regime.
func ParseRegime(label string) (Regime, bool) {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "under"):
		return Underdamped, true
	case strings.Contains(l, "crit"):
		return CriticallyDamped, true
	case strings.Contains(l, "over"):
		return Overdamped, true
	}
	return 0, false
}

// Classify inspects the discriminant a1² - 4·a2·a0 of the characteristic
// polynomial [a2, a1, a0]: complex roots are underdamped, a repeated root
// critically damped and distinct real roots overdamped.
func Classify(p lti.Poly) Regime {
	a2, a1, a0 := p[0], p[1], p[2]
	disc := a1*a1 - 4*a2*a0
	scale := a1*a1 + math.Abs(4*a2*a0)
	switch {
	case math.Abs(disc) <= criticalTolerance*scale:
		return CriticallyDamped
	case disc < 0:
		return Underdamped
	default:
		return Overdamped
	}
}

// DampingRatio is ζ = a1 / (2·√(a2·a0)).
func DampingRatio(p lti.Poly) float64 {
	return p[1] / (2 * math.Sqrt(p[0]*p[2]))
}

// NaturalFrequency is ωn = √(a0/a2) in rad/s.
func NaturalFrequency(p lti.Poly) float64 {
	return math.Sqrt(p[2] / p[0])
}

// DampedFrequency is ωd = ωn·√(1-ζ²), zero unless underdamped.
func DampedFrequency(p lti.Poly) float64 {
	z := DampingRatio(p)
	if z >= 1 {
		return 0
	}
	return NaturalFrequency(p) * math.Sqrt(1-z*z)
}

// RegimeSpec selects the damping coefficient of one variant. A non-zero Ratio
// takes precedence and is multiplied by the model's critical damping;
// otherwise Coefficient is used as is.
type RegimeSpec struct {
	Label       string
	Coefficient float64
	Ratio       float64
}

// Variant is one damping regime of a nominal model.
type Variant struct {
	Label  string
	Regime Regime
	Model  Model
	Zeta   float64
	OmegaN float64
}

// LabelMatches reports whether the configured label names the regime the
// coefficients actually produce. Labels naming no regime always match.
func (v Variant) LabelMatches() bool {
	r, ok := ParseRegime(v.Label)
	return !ok || r == v.Regime
}

// BuildRegimes derives one variant per spec from the nominal model, which
// only contributes its non-damping coefficients.
func BuildRegimes(nominal Model, specs []RegimeSpec) ([]Variant, error) {
	if nominal == nil {
		return nil, fmt.Errorf("%w: nil model", dynamo.ErrInvalidParameter)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no damping regimes configured", dynamo.ErrInvalidParameter)
	}

	variants := make([]Variant, 0, len(specs))
	for i, spec := range specs {
		coef := spec.Coefficient
		if spec.Ratio != 0 {
			if spec.Ratio < 0 || math.IsNaN(spec.Ratio) || math.IsInf(spec.Ratio, 0) {
				return nil, &dynamo.ParameterError{Name: "ratio", Value: spec.Ratio, Reason: "must be positive and finite"}
			}
			coef = spec.Ratio * nominal.CriticalDamping()
		}

		model, err := nominal.WithDamping(coef)
		if err != nil {
			return nil, fmt.Errorf("regime %d: %w", i, err)
		}

		p := model.Characteristic()
		v := Variant{
			Label:  spec.Label,
			Regime: Classify(p),
			Model:  model,
			Zeta:   DampingRatio(p),
			OmegaN: NaturalFrequency(p),
		}
		if v.Label == "" {
			v.Label = v.Regime.Title()
		}
		variants = append(variants, v)
	}
	return variants, nil
}
