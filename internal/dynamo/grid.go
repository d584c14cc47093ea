package dynamo

import "fmt"

// TimeGrid is an ordered, evenly spaced sequence of sample times with both
// endpoints included. It is shared read-only by every solver in a run.
type TimeGrid struct {
	start, stop float64
	times       []float64
}

// NewTimeGrid returns n evenly spaced samples over [start, stop].
func NewTimeGrid(start, stop float64, n int) (TimeGrid, error) {
	if n < 2 {
		return TimeGrid{}, fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidGrid, n)
	}
	if !isFinite(start) || !isFinite(stop) || stop <= start {
		return TimeGrid{}, fmt.Errorf("%w: interval [%g, %g] is empty", ErrInvalidGrid, start, stop)
	}

	times := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range times {
		times[i] = start + float64(i)*step
	}
	times[n-1] = stop

	return TimeGrid{start: start, stop: stop, times: times}, nil
}

func (g TimeGrid) Len() int         { return len(g.times) }
func (g TimeGrid) At(i int) float64 { return g.times[i] }
func (g TimeGrid) Start() float64   { return g.start }
func (g TimeGrid) Stop() float64    { return g.stop }
func (g TimeGrid) Spacing() float64 {
	if len(g.times) < 2 {
		return 0
	}
	return (g.stop - g.start) / float64(len(g.times)-1)
}

// Times returns a copy of the sample times.
func (g TimeGrid) Times() []float64 {
	out := make([]float64, len(g.times))
	copy(out, g.times)
	return out
}
