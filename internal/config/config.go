package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dampsim/internal/dynamo"
)

const (
	DefaultIntegrator = "rk45"
	DefaultDt         = 1e-3
	DefaultRelTol     = 1e-8
	DefaultAbsTol     = 1e-10
	DefaultMinDt      = 1e-12
	DefaultMaxSteps   = 1_000_000
	DefaultOutputDir  = "plots"
	DefaultWidth      = 72
	DefaultHeight     = 14
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Solver SolverConfig  `yaml:"solver"`
	Spring SpringConfig  `yaml:"spring_mass"`
	RLC    CircuitConfig `yaml:"rlc"`
	Output OutputConfig  `yaml:"output"`
}

type SolverConfig struct {
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	RelTol     float64 `yaml:"rtol"`
	AbsTol     float64 `yaml:"atol"`
	MinDt      float64 `yaml:"min_dt"`
	MaxDt      float64 `yaml:"max_dt"`
	MaxSteps   int     `yaml:"max_steps"`
}

type SpringConfig struct {
	Mass      float64        `yaml:"mass"`
	Stiffness float64        `yaml:"stiffness"`
	Regimes   []RegimeConfig `yaml:"regimes"`
	Grid      GridConfig     `yaml:"grid"`
	Drive     DriveConfig    `yaml:"drive"`
}

type CircuitConfig struct {
	Inductance  float64        `yaml:"inductance"`
	Capacitance float64        `yaml:"capacitance"`
	Regimes     []RegimeConfig `yaml:"regimes"`
	Grid        GridConfig     `yaml:"grid"`
	Drive       DriveConfig    `yaml:"drive"`
}

// RegimeConfig gives the damping (spring) or resistance (circuit) of one
// variant, either directly or as a multiple of the critical value.
type RegimeConfig struct {
	Label       string  `yaml:"label"`
	Coefficient float64 `yaml:"coefficient,omitempty"`
	Ratio       float64 `yaml:"ratio,omitempty"`
}

type GridConfig struct {
	Start   float64 `yaml:"start"`
	Stop    float64 `yaml:"stop"`
	Samples int     `yaml:"samples"`
}

// DriveConfig selects the excitation: "step", "sine" or "ramp".
type DriveConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
	Phase     float64 `yaml:"phase,omitempty"`
	Rate      float64 `yaml:"rate,omitempty"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir"`
	PNG      bool   `yaml:"png"`
	Terminal bool   `yaml:"terminal"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Integrator: DefaultIntegrator,
			Dt:         DefaultDt,
			RelTol:     DefaultRelTol,
			AbsTol:     DefaultAbsTol,
			MinDt:      DefaultMinDt,
			MaxSteps:   DefaultMaxSteps,
		},
		Spring: SpringConfig{
			Mass:      1,
			Stiffness: 2,
			Regimes: []RegimeConfig{
				{Label: "Underdamped", Coefficient: 1},
				{Label: "Critically Damped", Ratio: 1},
				{Label: "Overdamped", Coefficient: 5},
			},
			Grid:  GridConfig{Start: 0, Stop: 10, Samples: 500},
			Drive: DriveConfig{Kind: "step", Amplitude: 1},
		},
		RLC: CircuitConfig{
			Inductance:  0.5,
			Capacitance: 0.01,
			Regimes: []RegimeConfig{
				{Label: "Underdamped", Coefficient: 0.5},
				{Label: "Critically Damped", Ratio: 1},
				{Label: "Overdamped", Ratio: 2},
			},
			Grid:  GridConfig{Start: 0, Stop: 20, Samples: 1000},
			Drive: DriveConfig{Kind: "sine", Amplitude: 1, Frequency: 0.5},
		},
		Output: OutputConfig{
			Dir:      DefaultOutputDir,
			PNG:      true,
			Terminal: true,
			Width:    DefaultWidth,
			Height:   DefaultHeight,
		},
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads a YAML file over base. Keys absent from the file keep the
// value from base; a regimes list in the file replaces the whole list.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Spring.Regimes = append([]RegimeConfig(nil), c.Spring.Regimes...)
	out.RLC.Regimes = append([]RegimeConfig(nil), c.RLC.Regimes...)
	return &out
}

// Validate checks structural settings. Physical coefficients are checked when
// the models are built.
func (c *Config) Validate() error {
	var errs []error
	if c.Solver.Integrator == "" {
		errs = append(errs, fmt.Errorf("%w: solver.integrator is empty", ErrInvalidConfig))
	}
	if c.Solver.Dt <= 0 {
		errs = append(errs, fmt.Errorf("%w: solver.dt must be positive, got %g", ErrInvalidConfig, c.Solver.Dt))
	}
	if c.Solver.RelTol < 0 || c.Solver.AbsTol < 0 || c.Solver.RelTol+c.Solver.AbsTol == 0 {
		errs = append(errs, fmt.Errorf("%w: solver tolerances must be non-negative and not both zero", ErrInvalidConfig))
	}
	if len(c.Spring.Regimes) == 0 {
		errs = append(errs, fmt.Errorf("%w: spring_mass.regimes is empty", ErrInvalidConfig))
	}
	if len(c.RLC.Regimes) == 0 {
		errs = append(errs, fmt.Errorf("%w: rlc.regimes is empty", ErrInvalidConfig))
	}
	if _, err := c.Spring.Grid.TimeGrid(); err != nil {
		errs = append(errs, fmt.Errorf("spring_mass.grid: %w", err))
	}
	if _, err := c.RLC.Grid.TimeGrid(); err != nil {
		errs = append(errs, fmt.Errorf("rlc.grid: %w", err))
	}
	if c.Output.PNG && c.Output.Dir == "" {
		errs = append(errs, fmt.Errorf("%w: output.dir is required for png output", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// Dynamo converts the solver settings. Only rk45 steps adaptively.
func (s SolverConfig) Dynamo() dynamo.Config {
	cfg := dynamo.DefaultConfig()
	cfg.Dt = s.Dt
	cfg.Tolerance = dynamo.Tolerance{Rel: s.RelTol, Abs: s.AbsTol}
	cfg.MinDt = s.MinDt
	cfg.MaxDt = s.MaxDt
	cfg.MaxSteps = s.MaxSteps
	cfg.Adaptive = s.Integrator == "rk45"
	return cfg
}

// TimeGrid builds the sample grid. Every drive switches on at t = 0, so the
// grid must start there.
func (g GridConfig) TimeGrid() (dynamo.TimeGrid, error) {
	if g.Start != 0 {
		return dynamo.TimeGrid{}, fmt.Errorf("%w: grid must start at 0, got %g", dynamo.ErrInvalidGrid, g.Start)
	}
	return dynamo.NewTimeGrid(g.Start, g.Stop, g.Samples)
}
