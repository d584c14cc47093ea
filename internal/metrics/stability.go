package metrics

import "math"

// Stability is the fraction of samples whose magnitude stays within the
// threshold. Non-finite samples always count as violations.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t, y float64) {
	s.samples++
	if math.IsNaN(y) || math.Abs(y) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// Bounded reports whether no sample violated the threshold.
func (s *Stability) Bounded() bool { return s.violations == 0 }

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
