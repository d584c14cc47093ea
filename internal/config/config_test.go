package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/dampsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Solver.Integrator != "rk45" {
		t.Errorf("expected integrator rk45, got %s", cfg.Solver.Integrator)
	}
	if cfg.Spring.Mass != 1 || cfg.Spring.Stiffness != 2 {
		t.Errorf("unexpected spring nominal %+v", cfg.Spring)
	}
	if cfg.RLC.Inductance != 0.5 || cfg.RLC.Capacitance != 0.01 {
		t.Errorf("unexpected circuit nominal %+v", cfg.RLC)
	}
	if cfg.Spring.Grid.Samples != 500 || cfg.RLC.Grid.Samples != 1000 {
		t.Error("unexpected default grids")
	}
	if cfg.Spring.Drive.Kind != "step" || cfg.RLC.Drive.Kind != "sine" || cfg.RLC.Drive.Frequency != 0.5 {
		t.Error("unexpected default drives")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty integrator", func(c *Config) { c.Solver.Integrator = "" }, ErrInvalidConfig},
		{"zero dt", func(c *Config) { c.Solver.Dt = 0 }, ErrInvalidConfig},
		{"zero tolerances", func(c *Config) { c.Solver.RelTol, c.Solver.AbsTol = 0, 0 }, ErrInvalidConfig},
		{"no spring regimes", func(c *Config) { c.Spring.Regimes = nil }, ErrInvalidConfig},
		{"single sample", func(c *Config) { c.RLC.Grid.Samples = 1 }, dynamo.ErrInvalidGrid},
		{"reversed grid", func(c *Config) { c.Spring.Grid.Stop = -1 }, dynamo.ErrInvalidGrid},
		{"late grid start", func(c *Config) { c.Spring.Grid.Start, c.Spring.Grid.Stop = 1, 11 }, dynamo.ErrInvalidGrid},
		{"early grid start", func(c *Config) { c.RLC.Grid.Start = -1 }, dynamo.ErrInvalidGrid},
		{"png without dir", func(c *Config) { c.Output.Dir = "" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dampsim.yaml")

	cfg := DefaultConfig()
	cfg.Spring.Regimes[0].Coefficient = 0.25
	cfg.Output.Terminal = false
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Spring.Regimes[0].Coefficient != 0.25 || loaded.Output.Terminal {
		t.Errorf("round trip lost changes: %+v", loaded)
	}
	if loaded.Spring.Regimes[1].Ratio != 1 {
		t.Errorf("ratio regime lost: %+v", loaded.Spring.Regimes[1])
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("rlc:\n  regimes:\n    - label: Overdamped\n      coefficient: 40\nsolver:\n  integrator: rk4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.RLC.Regimes) != 1 || cfg.RLC.Regimes[0].Coefficient != 40 {
		t.Errorf("regimes not replaced: %+v", cfg.RLC.Regimes)
	}
	if cfg.RLC.Inductance != 0.5 || cfg.Solver.Dt != DefaultDt {
		t.Error("unspecified keys should keep their defaults")
	}
	if cfg.Solver.Dynamo().Adaptive {
		t.Error("rk4 should not step adaptively")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("solver: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestOverlayDoesNotModifyBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "o.yaml")
	if err := os.WriteFile(path, []byte("spring_mass:\n  regimes:\n    - coefficient: 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("source")
	cfg, err := Overlay(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if len(base.Spring.Regimes) != 3 || base.Spring.Regimes[0].Coefficient != 1 {
		t.Errorf("base modified: %+v", base.Spring.Regimes)
	}
	if len(cfg.Spring.Regimes) != 1 {
		t.Errorf("overlay regimes: %+v", cfg.Spring.Regimes)
	}
	if cfg.RLC.Regimes[1].Coefficient != 2 {
		t.Error("overlay should keep the preset's circuit regimes")
	}
}

func TestSolverDynamo(t *testing.T) {
	cfg := DefaultConfig().Solver.Dynamo()
	if !cfg.Adaptive || cfg.Tolerance.Rel != DefaultRelTol || cfg.Tolerance.Abs != DefaultAbsTol {
		t.Errorf("unexpected solver config %+v", cfg)
	}
	if cfg.MaxSteps != DefaultMaxSteps || cfg.Dt != DefaultDt {
		t.Errorf("unexpected step settings %+v", cfg)
	}
}

func TestGridConfig(t *testing.T) {
	g, err := DefaultConfig().RLC.Grid.TimeGrid()
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 1000 || g.At(0) != 0 || g.At(999) != 20 {
		t.Errorf("unexpected grid: len %d, [%v, %v]", g.Len(), g.At(0), g.At(999))
	}
}

func TestGridConfigRejectsOffsetStart(t *testing.T) {
	for _, start := range []float64{-1, 1} {
		g := GridConfig{Start: start, Stop: start + 10, Samples: 100}
		if _, err := g.TimeGrid(); !errors.Is(err, dynamo.ErrInvalidGrid) {
			t.Errorf("start %g: expected ErrInvalidGrid, got %v", start, err)
		}
	}
}
