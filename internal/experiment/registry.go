package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dampsim/internal/config"
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/excitation"
	"github.com/san-kum/dampsim/internal/integrators"
	"github.com/san-kum/dampsim/internal/physics"
)

const (
	SpringMass = "spring_mass"
	RLC        = "rlc"
)

type Registry struct {
	models      map[string]func(cfg *config.Config) (physics.Model, error)
	integrators map[string]func() dynamo.Integrator
	excitations map[string]func(d config.DriveConfig) excitation.Signal
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]func(cfg *config.Config) (physics.Model, error)),
		integrators: make(map[string]func() dynamo.Integrator),
		excitations: make(map[string]func(d config.DriveConfig) excitation.Signal),
	}

	// Nominal models carry zero damping; the regime table supplies it.
	r.models[SpringMass] = func(cfg *config.Config) (physics.Model, error) {
		return physics.NewMassSpringDamper(cfg.Spring.Mass, 0, cfg.Spring.Stiffness)
	}
	r.models[RLC] = func(cfg *config.Config) (physics.Model, error) {
		return physics.NewSeriesRLC(cfg.RLC.Inductance, 0, cfg.RLC.Capacitance)
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.excitations["step"] = func(d config.DriveConfig) excitation.Signal {
		return excitation.Step{Amplitude: d.Amplitude}
	}
	r.excitations["sine"] = func(d config.DriveConfig) excitation.Signal {
		return excitation.Sine{Amplitude: d.Amplitude, Frequency: d.Frequency, Phase: d.Phase}
	}
	r.excitations["ramp"] = func(d config.DriveConfig) excitation.Signal {
		return excitation.Ramp{Rate: d.Rate}
	}

	return r
}

func (r *Registry) GetModel(name string, cfg *config.Config) (physics.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown system: %s (available: %v)", name, r.ListModels())
	}
	return fn(cfg)
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) GetExcitation(d config.DriveConfig) (excitation.Signal, error) {
	fn, ok := r.excitations[d.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown excitation: %q (available: %v)", d.Kind, r.ListExcitations())
	}
	sig := fn(d)
	if err := excitation.Validate(sig); err != nil {
		return nil, fmt.Errorf("%s excitation: %w", d.Kind, err)
	}
	return sig, nil
}

func (r *Registry) ListModels() []string      { return sortedKeys(r.models) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListExcitations() []string { return sortedKeys(r.excitations) }

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
