package config

import "sort"

// Presets are complete configurations selectable by name.
var Presets = map[string]func() *Config{
	"default": DefaultConfig,

	// Damping coefficients 1, 2 and 5 (spring) and 0.5, 2 and 5 ohm
	// (circuit). Some labels do not match the regime they produce.
	"source": func() *Config {
		cfg := DefaultConfig()
		cfg.Spring.Regimes = []RegimeConfig{
			{Label: "Underdamped", Coefficient: 1},
			{Label: "Critically Damped", Coefficient: 2},
			{Label: "Overdamped", Coefficient: 5},
		}
		cfg.RLC.Regimes = []RegimeConfig{
			{Label: "Underdamped", Coefficient: 0.5},
			{Label: "Critically Damped", Coefficient: 2},
			{Label: "Overdamped", Coefficient: 5},
		}
		return cfg
	},

	"step": func() *Config {
		cfg := DefaultConfig()
		cfg.RLC.Drive = DriveConfig{Kind: "step", Amplitude: 1}
		return cfg
	},

	"sine": func() *Config {
		cfg := DefaultConfig()
		cfg.Spring.Drive = DriveConfig{Kind: "sine", Amplitude: 1, Frequency: 0.5}
		cfg.Spring.Grid = GridConfig{Start: 0, Stop: 30, Samples: 1500}
		return cfg
	},

	"ramp": func() *Config {
		cfg := DefaultConfig()
		cfg.Spring.Drive = DriveConfig{Kind: "ramp", Rate: 0.1}
		cfg.RLC.Drive = DriveConfig{Kind: "ramp", Rate: 1}
		return cfg
	},

	"fine": func() *Config {
		cfg := DefaultConfig()
		cfg.Solver.RelTol = 1e-11
		cfg.Solver.AbsTol = 1e-13
		cfg.Spring.Grid.Samples = 5000
		cfg.RLC.Grid.Samples = 10000
		return cfg
	},

	"fixed-step": func() *Config {
		cfg := DefaultConfig()
		cfg.Solver.Integrator = "rk4"
		cfg.Solver.Dt = 1e-3
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
