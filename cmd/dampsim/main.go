package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/dampsim/internal/config"
	"github.com/san-kum/dampsim/internal/experiment"
	"github.com/san-kum/dampsim/internal/viz"
)

var (
	configFile string
	preset     string
	outDir     string
	noPNG      bool
	noTerminal bool
	integrator string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "dampsim",
		Short:         "compare damped second-order system responses across solution methods",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return compare(cmd.Context(), experiment.Systems...)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file path (yaml)")
	flags.StringVar(&preset, "preset", "", "use preset configuration")
	flags.StringVar(&outDir, "out", "", "directory for png figures")
	flags.BoolVar(&noPNG, "no-png", false, "skip png figures")
	flags.BoolVar(&noTerminal, "no-terminal", false, "skip terminal charts")
	flags.StringVar(&integrator, "integrator", "", "time-domain integrator (euler, rk4, rk45)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	springCmd := &cobra.Command{
		Use:   "spring",
		Short: "spring-mass system only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compare(cmd.Context(), experiment.SpringMass)
		},
	}

	rlcCmd := &cobra.Command{
		Use:   "rlc",
		Short: "series RLC circuit only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return compare(cmd.Context(), experiment.RLC)
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			log.Info().Str("path", args[0]).Msg("config written")
			return nil
		},
	}

	rootCmd.AddCommand(springCmd, rlcCmd, presetsCmd, initCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("dampsim failed")
		stop()
		os.Exit(1)
	}
}

func setupLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// loadConfig layers the preset, the config file and the command-line flags,
// in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.Overlay(configFile, cfg); err != nil {
			return nil, err
		}
	}

	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if noPNG {
		cfg.Output.PNG = false
	}
	if noTerminal {
		cfg.Output.Terminal = false
	}
	if integrator != "" {
		cfg.Solver.Integrator = integrator
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compare(ctx context.Context, systems ...string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	plans, err := reg.Plans(cfg, systems...)
	if err != nil {
		return err
	}

	reports, err := experiment.NewComparator(reg, log.Logger).RunAll(ctx, plans)
	if err != nil {
		return err
	}

	png := viz.NewPNGRenderer(cfg.Output.Dir)
	term := viz.NewTerminalRenderer(os.Stdout, cfg.Output.Width, cfg.Output.Height)
	for _, rep := range reports {
		if cfg.Output.Terminal {
			if err := term.Render(rep); err != nil {
				return err
			}
		}
		if cfg.Output.PNG {
			if err := png.Render(rep); err != nil {
				return err
			}
			log.Info().Str("system", rep.System).Str("dir", cfg.Output.Dir).Msg("figures written")
		}
		if bad := rep.Disagreements(); len(bad) > 0 {
			log.Warn().Str("system", rep.System).Int("count", len(bad)).Msg("methods disagree beyond tolerance")
		}
	}
	return nil
}
