// Package analysis provides spectral tools for sampled responses.
//
// [PeakFrequency] locates the dominant oscillation of a uniformly sampled
// series. The series is detrended about its final value and zero-padded
// before the FFT so that short, decaying records still resolve their
// ringing frequency:
//
//	freq, err := analysis.PeakFrequency(values, grid.Spacing())
package analysis
