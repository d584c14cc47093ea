package metrics

import "math"

// SteadyStateAmplitude is the largest |y| over the trailing window of the
// series, used to measure the amplitude of a periodic steady state.
func SteadyStateAmplitude(times, values []float64, window float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	start := times[len(times)-1] - window
	amp := 0.0
	for i := len(values) - 1; i >= 0 && times[i] >= start; i-- {
		amp = math.Max(amp, math.Abs(values[i]))
	}
	return amp
}
