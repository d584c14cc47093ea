package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/dampsim/internal/analysis"
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/excitation"
	"github.com/san-kum/dampsim/internal/metrics"
	"github.com/san-kum/dampsim/internal/physics"
	"github.com/san-kum/dampsim/internal/sim"
)

const (
	// ExactTolerance bounds the relative disagreement between methods when
	// the sampled input is exactly piecewise linear (step, ramp).
	ExactTolerance = 1e-4

	// InterpolatedTolerance applies when the state-space input is a
	// piecewise-linear interpolation of a smooth drive.
	InterpolatedTolerance = 5e-3

	// boundThreshold is the magnitude beyond which a response counts as
	// unbounded.
	boundThreshold = 1e6

	// steadyStatePeriods is the trailing window, in drive periods, used to
	// measure a sinusoidal steady state.
	steadyStatePeriods = 2
)

// Comparator runs every method for every regime of a plan.
type Comparator struct {
	registry *Registry
	log      zerolog.Logger
}

func NewComparator(registry *Registry, log zerolog.Logger) *Comparator {
	return &Comparator{registry: registry, log: log}
}

// RunAll runs the plans in order and stops at the first failure.
func (c *Comparator) RunAll(ctx context.Context, plans []*Plan) ([]*Report, error) {
	reports := make([]*Report, 0, len(plans))
	for _, p := range plans {
		rep, err := c.Run(ctx, p)
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

func (c *Comparator) Run(ctx context.Context, plan *Plan) (*Report, error) {
	variants, err := physics.BuildRegimes(plan.Nominal, plan.Regimes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", plan.System, err)
	}

	rep := &Report{
		System:      plan.System,
		Title:       plan.Title,
		OutputLabel: plan.Nominal.OutputLabel(),
		Drive:       plan.Drive.Name(),
		Times:       plan.Grid.Times(),
		Captions:    plan.Captions,
	}

	for i, v := range variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log := c.log.With().
			Str("system", plan.System).
			Str("variant", v.Label).
			Str("regime", v.Regime.String()).
			Logger()

		if !v.LabelMatches() {
			log.Warn().
				Float64("zeta", v.Zeta).
				Float64("coefficient", v.Model.Damping()).
				Msg("regime label does not match the damping coefficient")
		}
		log.Debug().
			Float64("zeta", v.Zeta).
			Float64("omega_n", v.OmegaN).
			Fields(params(v.Model)).
			Msg("simulating variant")

		vr, err := c.runVariant(ctx, plan, i, v)
		if err != nil {
			return nil, fmt.Errorf("%s/%s: %w", plan.System, v.Label, err)
		}

		rep.Responses = append(rep.Responses, vr.responses...)
		rep.Summaries = append(rep.Summaries, vr.summary)
		rep.Agreements = append(rep.Agreements, vr.agreements...)

		for _, a := range vr.agreements {
			ev := log.Debug()
			if !a.Passed() {
				ev = log.Warn()
			}
			ev.Str("a", string(a.A)).Str("b", string(a.B)).
				Float64("max_rel", a.MaxRel).
				Float64("tolerance", a.Tolerance).
				Msg("method agreement")
		}
		log.Debug().
			Int("steps", vr.summary.Stats.Steps).
			Int("rejected", vr.summary.Stats.Rejected).
			Int("evaluations", vr.summary.Stats.Evaluations).
			Msg("time-domain solver stats")
	}

	return rep, nil
}

type variantResult struct {
	responses  []Response
	summary    Summary
	agreements []Agreement
}

func (c *Comparator) runVariant(ctx context.Context, plan *Plan, index int, v physics.Variant) (*variantResult, error) {
	base := Response{System: plan.System, Index: index, Variant: v.Label, Regime: v.Regime}

	// Time domain.
	integ, err := c.registry.GetIntegrator(plan.Integrator)
	if err != nil {
		return nil, err
	}
	driven := physics.NewDriven(v.Model, plan.Drive)
	s := sim.New(driven, integ)

	var energy *metrics.EnergyTrace
	if h, ok := v.Model.(dynamo.Hamiltonian); ok {
		energy = metrics.NewEnergyTrace(h)
		s.AddObserver(energy)
	}

	traj, err := s.Sample(ctx, driven.InitialState(), plan.Grid, plan.Solver)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TimeDomain.Label(), err)
	}
	td := base
	td.Method = TimeDomain
	td.Values = traj.Component(0)
	td.States = toRows(traj.States)

	// Laplace domain: unit step characterisation.
	tf, err := v.Model.TransferFunction()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Laplace.Label(), err)
	}
	step, err := tf.StepResponse(plan.Grid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", Laplace.Label(), err)
	}
	ld := base
	ld.Method = Laplace
	ld.Values = step

	// State space, driven by the sampled excitation.
	ssys, err := v.Model.StateSpace()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StateSpace.Label(), err)
	}
	resp, err := ssys.Simulate(excitation.Sample(plan.Drive, plan.Grid), plan.Grid, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StateSpace.Label(), err)
	}
	ss := base
	ss.Method = StateSpace
	ss.Values = resp.Outputs
	ss.States = resp.States

	out := &variantResult{responses: []Response{td, ld, ss}}

	tol := InterpolatedTolerance
	if exactlySampled(plan.Drive) {
		tol = ExactTolerance
	}
	out.agreements = append(out.agreements, compare(index, v.Label, td, ss, 1, tol))
	if st, ok := plan.Drive.(excitation.Step); ok {
		out.agreements = append(out.agreements,
			compare(index, v.Label, ld, td, st.Amplitude, ExactTolerance),
			compare(index, v.Label, ld, ss, st.Amplitude, ExactTolerance),
		)
	}

	out.summary = summarize(plan, index, v, ld.Values, td.Values)
	out.summary.Stats = traj.Stats
	out.summary.StoredEnergy = math.NaN()
	if energy != nil {
		out.summary.StoredEnergy = energy.Final()
	}
	if sine, ok := plan.Drive.(excitation.Sine); ok {
		mag, _ := tf.FrequencyResponse(sine.Omega())
		window := steadyStatePeriods / sine.Frequency
		times := plan.Grid.Times()
		out.summary.Frequency = &FrequencyCheck{
			DriveHz:    sine.Frequency,
			Expected:   math.Abs(sine.Amplitude) * mag,
			TimeDomain: metrics.SteadyStateAmplitude(times, td.Values, window),
			StateSpace: metrics.SteadyStateAmplitude(times, ss.Values, window),
		}
	}
	return out, nil
}

func summarize(plan *Plan, index int, v physics.Variant, step, timeDomain []float64) Summary {
	times := plan.Grid.Times()
	ref := dcGain(v.Model)

	peak := metrics.NewPeak()
	settling := metrics.NewSettlingTime(ref, metrics.DefaultSettlingBand)
	values := metrics.Evaluate(times, step,
		peak, settling, metrics.NewOvershoot(ref), metrics.NewFinalValue())

	stability := metrics.NewStability(boundThreshold)
	metrics.Evaluate(times, timeDomain, stability)

	s := Summary{
		Index:        index,
		Variant:      v.Label,
		Regime:       v.Regime,
		LabelMatches: v.LabelMatches(),
		Coefficient:  v.Model.Damping(),
		Zeta:         v.Zeta,
		OmegaN:       v.OmegaN,
		Overshoot:    values["overshoot"],
		Peak:         values["peak"],
		PeakTime:     peak.Time(),
		SettlingTime: values["settling_time"],
		FinalValue:   values["final_value"],
		Bounded:      stability.Bounded(),
	}

	if v.Regime == physics.Underdamped {
		hz, err := analysis.PeakFrequency(step, plan.Grid.Spacing())
		if err != nil {
			hz = math.NaN()
		}
		s.RingingHz = hz
	}
	return s
}

func params(m physics.Model) map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range m.GetParams() {
		out[k] = v
	}
	return out
}

func dcGain(m physics.Model) float64 {
	tf, err := m.TransferFunction()
	if err != nil {
		return math.NaN()
	}
	return tf.DCGain()
}

// compare reports how far scale·a deviates from b, relative to the larger
// of the two peak magnitudes.
func compare(index int, label string, a, b Response, scale, tol float64) Agreement {
	maxAbs, peak := 0.0, 0.0
	for i := range a.Values {
		av := scale * a.Values[i]
		maxAbs = math.Max(maxAbs, math.Abs(av-b.Values[i]))
		peak = math.Max(peak, math.Max(math.Abs(av), math.Abs(b.Values[i])))
	}
	rel := maxAbs
	if peak > 0 {
		rel = maxAbs / peak
	}
	return Agreement{
		Index:     index,
		Variant:   label,
		A:         a.Method,
		B:         b.Method,
		MaxAbs:    maxAbs,
		MaxRel:    rel,
		Tolerance: tol,
	}
}

// exactlySampled reports whether linear interpolation between grid samples
// reproduces the drive exactly.
func exactlySampled(sig excitation.Signal) bool {
	switch sig.(type) {
	case excitation.Step, excitation.Ramp:
		return true
	}
	return false
}

func toRows(states []dynamo.State) [][]float64 {
	rows := make([][]float64, len(states))
	for i, s := range states {
		rows[i] = s
	}
	return rows
}
