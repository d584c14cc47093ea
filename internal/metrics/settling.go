package metrics

import "math"

const DefaultSettlingBand = 0.02

// SettlingTime is the earliest sample time after which the response stays
// within band·scale of the reference, where scale is |reference| or, for a
// zero reference, the largest |y| observed. It is +Inf when the final sample
// is still outside the band.
type SettlingTime struct {
	reference float64
	band      float64
	times     []float64
	values    []float64
}

func NewSettlingTime(reference, band float64) *SettlingTime {
	if band <= 0 {
		band = DefaultSettlingBand
	}
	return &SettlingTime{reference: reference, band: band}
}

func (s *SettlingTime) Name() string { return "settling_time" }

func (s *SettlingTime) Observe(t, y float64) {
	s.times = append(s.times, t)
	s.values = append(s.values, y)
}

func (s *SettlingTime) Value() float64 {
	n := len(s.values)
	if n == 0 {
		return math.NaN()
	}

	scale := math.Abs(s.reference)
	if scale == 0 {
		for _, y := range s.values {
			scale = math.Max(scale, math.Abs(y))
		}
	}
	tol := s.band * scale

	last := -1
	for i, y := range s.values {
		if math.IsNaN(y) || math.Abs(y-s.reference) > tol {
			last = i
		}
	}
	switch {
	case last == -1:
		return s.times[0]
	case last == n-1:
		return math.Inf(1)
	default:
		return s.times[last+1]
	}
}

func (s *SettlingTime) Reset() {
	s.times = s.times[:0]
	s.values = s.values[:0]
}
