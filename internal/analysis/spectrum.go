package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// minPadFactor is the minimum zero-padding ratio applied before the FFT.
	minPadFactor = 16

	// minPeakRatio is how far a peak must rise above the trough that ends the
	// DC lobe to count as an oscillation.
	minPeakRatio = 1.1
)

var ErrShortSeries = errors.New("analysis: series too short for spectral analysis")

// PowerSpectrum returns |X[k]| for the non-negative frequency bins of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// PeakFrequency returns the frequency in Hz of the largest non-DC spectral
// peak of values sampled every dt seconds, refined by parabolic
// interpolation between neighbouring bins.
func PeakFrequency(values []float64, dt float64) (float64, error) {
	if len(values) < 4 || dt <= 0 {
		return 0, ErrShortSeries
	}

	ref := values[len(values)-1]
	n := nextPow2(len(values) * minPadFactor)
	padded := make([]float64, n)
	for i, v := range values {
		padded[i] = v - ref
	}

	ps := PowerSpectrum(padded)

	// Skip the lobe around DC left by the detrended envelope.
	floor := 1
	for floor < len(ps)-1 && ps[floor] <= ps[floor-1] {
		floor++
	}
	floor--

	best := floor + 1
	for k := best + 1; k < len(ps)-1; k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if best >= len(ps)-1 || ps[best] <= minPeakRatio*ps[floor] {
		return 0, nil
	}

	shift := 0.0
	if best > 0 && best < len(ps)-1 {
		a, b, c := ps[best-1], ps[best], ps[best+1]
		if den := a - 2*b + c; den != 0 {
			shift = 0.5 * (a - c) / den
		}
	}
	return (float64(best) + shift) / (float64(n) * dt), nil
}

func nextPow2(n int) int {
	return 1 << uint(math.Ceil(math.Log2(float64(n))))
}
