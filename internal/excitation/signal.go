// Package excitation provides the input signals that drive the linear models.
package excitation

import (
	"fmt"
	"math"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// Signal is a continuous input u(t) together with its time derivative.
// Both are zero for t < 0.
type Signal interface {
	Name() string
	Value(t float64) float64
	Slope(t float64) float64
}

// Step is a Heaviside step of the given amplitude switched on at t = 0.
type Step struct {
	Amplitude float64
}

func (s Step) Name() string { return "step" }

func (s Step) Value(t float64) float64 {
	if t < 0 {
		return 0
	}
	return s.Amplitude
}

// Slope is zero everywhere; the jump at t = 0 is handled through the
// initial state of the driven model.
func (s Step) Slope(t float64) float64 { return 0 }

// Sine is A·sin(2πft + φ) for t >= 0.
type Sine struct {
	Amplitude float64
	Frequency float64 // Hz
	Phase     float64 // rad
}

func (s Sine) Name() string { return "sine" }

func (s Sine) Value(t float64) float64 {
	if t < 0 {
		return 0
	}
	return s.Amplitude * math.Sin(s.Omega()*t+s.Phase)
}

func (s Sine) Slope(t float64) float64 {
	if t < 0 {
		return 0
	}
	w := s.Omega()
	return s.Amplitude * w * math.Cos(w*t+s.Phase)
}

// Omega returns the angular frequency in rad/s.
func (s Sine) Omega() float64 { return 2 * math.Pi * s.Frequency }

// Ramp rises linearly from zero at Rate units per second.
type Ramp struct {
	Rate float64
}

func (r Ramp) Name() string { return "ramp" }

func (r Ramp) Value(t float64) float64 {
	if t < 0 {
		return 0
	}
	return r.Rate * t
}

func (r Ramp) Slope(t float64) float64 {
	if t < 0 {
		return 0
	}
	return r.Rate
}

// Control packs u(t) and u'(t) in the layout expected by the physics models.
func Control(sig Signal, t float64) dynamo.Control {
	return dynamo.Control{sig.Value(t), sig.Slope(t)}
}

// Sample evaluates sig at every grid time.
func Sample(sig Signal, grid dynamo.TimeGrid) []float64 {
	out := make([]float64, grid.Len())
	for i := range out {
		out[i] = sig.Value(grid.At(i))
	}
	return out
}

// Validate rejects signals with non-finite parameters or a negative frequency.
func Validate(sig Signal) error {
	switch s := sig.(type) {
	case Step:
		return finite("amplitude", s.Amplitude)
	case Sine:
		if err := finite("amplitude", s.Amplitude); err != nil {
			return err
		}
		if err := finite("phase", s.Phase); err != nil {
			return err
		}
		return dynamo.RequirePositive("frequency", s.Frequency)
	case Ramp:
		return finite("rate", s.Rate)
	case nil:
		return fmt.Errorf("%w: nil excitation", dynamo.ErrInvalidParameter)
	}
	return nil
}

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &dynamo.ParameterError{Name: name, Value: v, Reason: "must be finite"}
	}
	return nil
}
