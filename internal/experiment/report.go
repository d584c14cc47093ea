package experiment

import (
	"github.com/san-kum/dampsim/internal/physics"
	"github.com/san-kum/dampsim/internal/sim"
)

type Method string

const (
	TimeDomain Method = "time_domain"
	Laplace    Method = "laplace"
	StateSpace Method = "state_space"
)

// Methods lists the solution methods in report order.
var Methods = []Method{TimeDomain, Laplace, StateSpace}

func (m Method) Label() string {
	switch m {
	case TimeDomain:
		return "Time-Domain"
	case Laplace:
		return "Laplace-Domain"
	case StateSpace:
		return "State-Space"
	}
	return string(m)
}

// Response is one output series, aligned to the plan's grid.
type Response struct {
	System  string
	Index   int
	Variant string
	Regime  physics.Regime
	Method  Method
	Values  []float64

	// States is the internal state trajectory for the time-domain and
	// state-space methods; nil for the Laplace method.
	States [][]float64
}

// Agreement compares two methods for one variant.
type Agreement struct {
	Index     int
	Variant   string
	A, B      Method
	MaxAbs    float64
	MaxRel    float64
	Tolerance float64
}

func (a Agreement) Passed() bool { return a.MaxRel <= a.Tolerance }

// FrequencyCheck compares the measured steady-state amplitude under a
// sinusoidal drive with A·|H(j2πf)|.
type FrequencyCheck struct {
	DriveHz    float64
	Expected   float64
	TimeDomain float64
	StateSpace float64
}

type Summary struct {
	Index        int
	Variant      string
	Regime       physics.Regime
	LabelMatches bool
	Coefficient  float64
	Zeta         float64
	OmegaN       float64

	// Step-response characteristics from the Laplace method.
	Overshoot    float64
	Peak         float64
	PeakTime     float64
	SettlingTime float64
	FinalValue   float64
	RingingHz    float64

	Bounded bool

	// StoredEnergy is the model's stored energy at the end of the
	// time-domain run, NaN for models without an energy function.
	StoredEnergy float64

	Frequency *FrequencyCheck
	Stats     sim.Stats
}

type Report struct {
	System      string
	Title       string
	OutputLabel string
	Drive       string
	Times       []float64
	Captions    map[Method]string

	Responses  []Response
	Summaries  []Summary
	Agreements []Agreement
}

// FigureTitle is the title of the figure for method m, e.g.
// "RLC Circuit Response (Laplace-Domain)".
func (r *Report) FigureTitle(m Method) string {
	caption, ok := r.Captions[m]
	if !ok {
		caption = m.Label()
	}
	return r.Title + " Response (" + caption + ")"
}

// Series returns the responses of method m in regime order.
func (r *Report) Series(m Method) []Response {
	var out []Response
	for _, resp := range r.Responses {
		if resp.Method == m {
			out = append(out, resp)
		}
	}
	return out
}

// Response returns the series of method m for the variant at index.
func (r *Report) Response(index int, m Method) (Response, bool) {
	for _, resp := range r.Responses {
		if resp.Index == index && resp.Method == m {
			return resp, true
		}
	}
	return Response{}, false
}

// Disagreements returns the agreement rows outside tolerance.
func (r *Report) Disagreements() []Agreement {
	var out []Agreement
	for _, a := range r.Agreements {
		if !a.Passed() {
			out = append(out, a)
		}
	}
	return out
}
