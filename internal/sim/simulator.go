package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dampsim/internal/dynamo"
)

// Trajectory holds the state sampled at every grid time.
type Trajectory struct {
	Times  []float64
	States []dynamo.State
	Stats  Stats
}

// Component returns state component i at every sample.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

type Stats struct {
	Steps       int
	Rejected    int
	Evaluations int
	LastDt      float64
}

// Simulator integrates an unforced (or internally driven) system and
// reports the state on a fixed time grid. The integrator may take any number
// of internal steps between grid points but always lands on them exactly.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	observers  []dynamo.Observer
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Sample(ctx context.Context, x0 dynamo.State, grid dynamo.TimeGrid, cfg dynamo.Config) (*Trajectory, error) {
	if err := s.validate(x0, grid, cfg); err != nil {
		return nil, err
	}

	counter := &countingSystem{System: s.dyn}
	adaptive, isAdaptive := s.integrator.(dynamo.AdaptiveIntegrator)
	useAdaptive := cfg.Adaptive && isAdaptive

	traj := &Trajectory{
		Times:  make([]float64, 0, grid.Len()),
		States: make([]dynamo.State, 0, grid.Len()),
	}

	x := x0.Clone()
	t := grid.Start()
	dt := cfg.Dt
	if cfg.MaxDt > 0 {
		dt = math.Min(dt, cfg.MaxDt)
	}

	s.record(traj, t, x)

	fail := func(cause error) (*Trajectory, error) {
		traj.Stats.Evaluations = counter.calls
		return traj, &dynamo.SimulationError{Step: traj.Stats.Steps, Time: t, State: x.Clone(), Wrapped: cause}
	}

	for i := 1; i < grid.Len(); i++ {
		target := grid.At(i)
		eps := 1e-12 * math.Max(1, math.Abs(target))

		for target-t > eps {
			select {
			case <-ctx.Done():
				return fail(ctx.Err())
			default:
			}

			if cfg.MaxSteps > 0 && traj.Stats.Steps >= cfg.MaxSteps {
				return fail(dynamo.ErrStepBudget)
			}

			h := dt
			clipped := false
			if t+h > target {
				h = target - t
				clipped = true
			}

			var newX dynamo.State
			if useAdaptive {
				var next float64
				var err error
				newX, next, err = adaptive.StepAdaptive(counter, x, nil, t, h, cfg.Tolerance)
				traj.Stats.Steps++
				if errors.Is(err, dynamo.ErrStepRejected) {
					traj.Stats.Rejected++
					if next < cfg.MinDt {
						return fail(fmt.Errorf("%w: dt=%g", dynamo.ErrStepTooSmall, next))
					}
					dt = next
					continue
				}
				if err != nil {
					return fail(err)
				}
				if !clipped || next < dt {
					dt = next
				}
				if cfg.MaxDt > 0 {
					dt = math.Min(dt, cfg.MaxDt)
				}
			} else {
				newX = s.integrator.Step(counter, x, nil, t, h)
				traj.Stats.Steps++
			}

			if cfg.ValidateState && !newX.IsValid() {
				return fail(dynamo.ErrInvalidState)
			}

			x = newX
			t += h
			traj.Stats.LastDt = h
		}

		t = target
		s.record(traj, t, x)
	}

	traj.Stats.Evaluations = counter.calls
	return traj, nil
}

func (s *Simulator) record(traj *Trajectory, t float64, x dynamo.State) {
	traj.Times = append(traj.Times, t)
	traj.States = append(traj.States, x.Clone())
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) validate(x0 dynamo.State, grid dynamo.TimeGrid, cfg dynamo.Config) error {
	if grid.Len() < 2 {
		return fmt.Errorf("%w: grid has %d samples", dynamo.ErrInvalidGrid, grid.Len())
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsValid() {
		return dynamo.ErrInvalidState
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Adaptive && (cfg.Tolerance.Rel <= 0 && cfg.Tolerance.Abs <= 0) {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}

type countingSystem struct {
	dynamo.System
	calls int
}

func (c *countingSystem) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	c.calls++
	return c.System.Derive(x, u, t)
}
