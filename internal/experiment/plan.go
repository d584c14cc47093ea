package experiment

import (
	"fmt"

	"github.com/san-kum/dampsim/internal/config"
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/excitation"
	"github.com/san-kum/dampsim/internal/physics"
)

// Plan is everything needed to compare one system across its regimes.
type Plan struct {
	System     string
	Title      string
	Nominal    physics.Model
	Regimes    []physics.RegimeSpec
	Grid       dynamo.TimeGrid
	Drive      excitation.Signal
	Integrator string
	Solver     dynamo.Config

	// Captions holds the figure title suffix for each method.
	Captions map[Method]string
}

var systemTitles = map[string]string{
	SpringMass: "Spring-Mass System",
	RLC:        "RLC Circuit",
}

var systemCaptions = map[string]map[Method]string{
	SpringMass: {
		TimeDomain: "Time-Domain Solution",
		Laplace:    "Laplace-Domain",
		StateSpace: "State-Space Representation",
	},
	RLC: {
		TimeDomain: "Time-Domain",
		Laplace:    "Laplace-Domain",
		StateSpace: "State-Space",
	},
}

// NewPlan builds the plan for one system from cfg.
func (r *Registry) NewPlan(system string, cfg *config.Config) (*Plan, error) {
	nominal, err := r.GetModel(system, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := r.GetIntegrator(cfg.Solver.Integrator); err != nil {
		return nil, err
	}

	var (
		regimes []config.RegimeConfig
		gridCfg config.GridConfig
		drive   config.DriveConfig
	)
	switch system {
	case SpringMass:
		regimes, gridCfg, drive = cfg.Spring.Regimes, cfg.Spring.Grid, cfg.Spring.Drive
	case RLC:
		regimes, gridCfg, drive = cfg.RLC.Regimes, cfg.RLC.Grid, cfg.RLC.Drive
	}

	grid, err := gridCfg.TimeGrid()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", system, err)
	}
	sig, err := r.GetExcitation(drive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", system, err)
	}

	specs := make([]physics.RegimeSpec, len(regimes))
	for i, rc := range regimes {
		specs[i] = physics.RegimeSpec{Label: rc.Label, Coefficient: rc.Coefficient, Ratio: rc.Ratio}
	}

	return &Plan{
		System:     system,
		Title:      systemTitles[system],
		Nominal:    nominal,
		Regimes:    specs,
		Grid:       grid,
		Drive:      sig,
		Integrator: cfg.Solver.Integrator,
		Solver:     cfg.Solver.Dynamo(),
		Captions:   systemCaptions[system],
	}, nil
}

// Systems lists the compared systems in run order.
var Systems = []string{SpringMass, RLC}

// Plans builds plans for the named systems, or for all Systems when none are
// named.
func (r *Registry) Plans(cfg *config.Config, systems ...string) ([]*Plan, error) {
	if len(systems) == 0 {
		systems = Systems
	}
	plans := make([]*Plan, 0, len(systems))
	for _, name := range systems {
		p, err := r.NewPlan(name, cfg)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}
