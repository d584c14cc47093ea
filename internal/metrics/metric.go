// Package metrics computes scalar summaries of sampled responses.
package metrics

import "math"

// Metric consumes a response one sample at a time.
type Metric interface {
	Name() string
	Observe(t, y float64)
	Value() float64
	Reset()
}

// Evaluate resets each metric, feeds it the full series and returns the
// values keyed by metric name.
func Evaluate(times, values []float64, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := range values {
			m.Observe(times[i], values[i])
		}
		out[m.Name()] = m.Value()
	}
	return out
}

type Peak struct {
	max  float64
	at   float64
	seen bool
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) Observe(t, y float64) {
	if !p.seen || y > p.max {
		p.max, p.at, p.seen = y, t, true
	}
}

func (p *Peak) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.max
}

// Time returns when the peak occurred.
func (p *Peak) Time() float64 { return p.at }

func (p *Peak) Reset() { *p = Peak{} }

type FinalValue struct {
	last float64
	seen bool
}

func NewFinalValue() *FinalValue { return &FinalValue{} }

func (f *FinalValue) Name() string { return "final_value" }

func (f *FinalValue) Observe(t, y float64) { f.last, f.seen = y, true }

func (f *FinalValue) Value() float64 {
	if !f.seen {
		return math.NaN()
	}
	return f.last
}

func (f *FinalValue) Reset() { *f = FinalValue{} }

// Overshoot is the percentage by which the response exceeds its reference
// value. It is zero when the response stays at or below the reference and
// NaN when the reference is zero.
type Overshoot struct {
	reference float64
	peak      Peak
}

func NewOvershoot(reference float64) *Overshoot {
	return &Overshoot{reference: reference}
}

func (o *Overshoot) Name() string { return "overshoot" }

func (o *Overshoot) Observe(t, y float64) {
	if o.reference < 0 {
		y = -y
	}
	o.peak.Observe(t, y)
}

func (o *Overshoot) Value() float64 {
	ref := math.Abs(o.reference)
	if ref == 0 || !o.peak.seen {
		return math.NaN()
	}
	return math.Max(0, (o.peak.max-ref)/ref*100)
}

func (o *Overshoot) Reset() { o.peak.Reset() }
