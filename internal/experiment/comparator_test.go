package experiment_test

import (
	"bytes"
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/san-kum/dampsim/internal/config"
	"github.com/san-kum/dampsim/internal/dynamo"
	"github.com/san-kum/dampsim/internal/experiment"
	"github.com/san-kum/dampsim/internal/physics"
)

func runSystem(cfg *config.Config, system string) *experiment.Report {
	reg := experiment.NewRegistry()
	plan, err := reg.NewPlan(system, cfg)
	Expect(err).NotTo(HaveOccurred())
	rep, err := experiment.NewComparator(reg, zerolog.Nop()).Run(context.Background(), plan)
	Expect(err).NotTo(HaveOccurred())
	return rep
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

func last(values []float64) float64 { return values[len(values)-1] }

var _ = Describe("Comparator", func() {
	Context("spring-mass system with default parameters", func() {
		var rep *experiment.Report

		BeforeEach(func() {
			rep = runSystem(config.DefaultConfig(), experiment.SpringMass)
		})

		It("produces three methods for each of the three regimes", func() {
			Expect(rep.Responses).To(HaveLen(9))
			Expect(rep.Summaries).To(HaveLen(3))
			for _, r := range rep.Responses {
				Expect(r.Values).To(HaveLen(500))
			}
			Expect(rep.Times).To(HaveLen(500))
			Expect(rep.Times[499]).To(Equal(10.0))
		})

		It("classifies the regimes from the coefficients", func() {
			Expect(rep.Summaries[0].Regime).To(Equal(physics.Underdamped))
			Expect(rep.Summaries[1].Regime).To(Equal(physics.CriticallyDamped))
			Expect(rep.Summaries[2].Regime).To(Equal(physics.Overdamped))
			Expect(rep.Summaries[1].Zeta).To(BeNumerically("~", 1, 1e-12))
			for _, s := range rep.Summaries {
				Expect(s.LabelMatches).To(BeTrue())
				Expect(s.OmegaN).To(BeNumerically("~", math.Sqrt2, 1e-12))
			}
		})

		It("agrees on the final displacement near 1/k", func() {
			for i := range rep.Summaries {
				td, ok := rep.Response(i, experiment.TimeDomain)
				Expect(ok).To(BeTrue())
				ld, ok := rep.Response(i, experiment.Laplace)
				Expect(ok).To(BeTrue())

				Expect(math.Abs(last(td.Values)-last(ld.Values)) / math.Abs(last(ld.Values))).To(BeNumerically("<", 1e-3))
				Expect(last(td.Values)).To(BeNumerically("~", 0.5, 0.02))
			}
		})

		It("matches the state-space and Laplace step responses pointwise", func() {
			for i := range rep.Summaries {
				ss, _ := rep.Response(i, experiment.StateSpace)
				ld, _ := rep.Response(i, experiment.Laplace)
				for k := range ld.Values {
					Expect(ss.Values[k]).To(BeNumerically("~", ld.Values[k], 1e-6))
				}
			}
			Expect(rep.Agreements).To(HaveLen(9))
			Expect(rep.Disagreements()).To(BeEmpty())
		})

		It("overshoots only when underdamped", func() {
			for i, s := range rep.Summaries {
				ld, _ := rep.Response(i, experiment.Laplace)
				if s.Regime == physics.Underdamped {
					Expect(maxOf(ld.Values)).To(BeNumerically(">", 0.5))
					Expect(s.Overshoot).To(BeNumerically("~", 30.4, 0.5))
					continue
				}
				Expect(maxOf(ld.Values)).To(BeNumerically("<=", 0.5+1e-9))
				Expect(s.Overshoot).To(BeZero())
				for k := 1; k < len(ld.Values); k++ {
					Expect(ld.Values[k]).To(BeNumerically(">=", ld.Values[k-1]-1e-9))
				}
			}
		})

		It("orders the settling times around critical damping", func() {
			under, crit, over := rep.Summaries[0], rep.Summaries[1], rep.Summaries[2]
			Expect(crit.SettlingTime).To(BeNumerically("~", 4.12, 0.05))
			Expect(over.SettlingTime).To(BeNumerically(">=", crit.SettlingTime))
			Expect(under.SettlingTime).To(BeNumerically(">", crit.SettlingTime))
		})

		It("reports the ringing frequency and stored energy", func() {
			under := rep.Summaries[0]
			wd := math.Sqrt(2 - 0.25)
			Expect(under.RingingHz).To(BeNumerically("~", wd/(2*math.Pi), 0.05))
			Expect(rep.Summaries[2].RingingHz).To(BeZero())

			for _, s := range rep.Summaries {
				Expect(s.Bounded).To(BeTrue())
				Expect(s.Stats.Steps).To(BeNumerically(">", 0))
				Expect(s.StoredEnergy).To(BeNumerically("~", 0.25, 0.01))
				Expect(s.Frequency).To(BeNil())
			}
		})

		It("titles the figures after the method", func() {
			Expect(rep.FigureTitle(experiment.TimeDomain)).To(Equal("Spring-Mass System Response (Time-Domain Solution)"))
			Expect(rep.FigureTitle(experiment.Laplace)).To(Equal("Spring-Mass System Response (Laplace-Domain)"))
			Expect(rep.FigureTitle(experiment.StateSpace)).To(Equal("Spring-Mass System Response (State-Space Representation)"))
			Expect(rep.OutputLabel).To(Equal("Displacement"))
		})
	})

	Context("RLC circuit under a step voltage", func() {
		var rep *experiment.Report

		BeforeEach(func() {
			rep = runSystem(config.GetPreset("step"), experiment.RLC)
		})

		It("decays the current to zero", func() {
			for i := range rep.Summaries {
				for _, m := range experiment.Methods {
					r, ok := rep.Response(i, m)
					Expect(ok).To(BeTrue())
					Expect(r.Values[0]).To(BeNumerically("~", 0, 1e-12))
					Expect(math.Abs(last(r.Values))).To(BeNumerically("<", 1e-3))
				}
			}
		})

		It("agrees across all three methods", func() {
			Expect(rep.Agreements).To(HaveLen(9))
			Expect(rep.Disagreements()).To(BeEmpty())
		})

		It("orders the settling times around critical damping", func() {
			under, crit, over := rep.Summaries[0], rep.Summaries[1], rep.Summaries[2]
			Expect(over.SettlingTime).To(BeNumerically(">=", crit.SettlingTime))
			Expect(under.SettlingTime).To(BeNumerically(">", crit.SettlingTime))
			Expect(math.IsNaN(crit.Overshoot)).To(BeTrue())
			Expect(crit.FinalValue).To(BeNumerically("~", 0, 1e-6))
		})

		It("carries the internal state trajectory", func() {
			ss, _ := rep.Response(0, experiment.StateSpace)
			Expect(ss.States).To(HaveLen(len(rep.Times)))
			Expect(ss.States[0]).To(HaveLen(2))
			for k, row := range ss.States {
				Expect(row[1]).To(BeNumerically("~", ss.Values[k], 1e-15))
			}
			ld, _ := rep.Response(0, experiment.Laplace)
			Expect(ld.States).To(BeNil())
		})
	})

	Context("RLC circuit under the default sinusoidal source", func() {
		var rep *experiment.Report

		BeforeEach(func() {
			rep = runSystem(config.DefaultConfig(), experiment.RLC)
		})

		It("uses the sinusoid for time-domain and state-space only", func() {
			Expect(rep.Drive).To(Equal("sine"))
			Expect(rep.Agreements).To(HaveLen(3))
			for _, a := range rep.Agreements {
				Expect(a.A).To(Equal(experiment.TimeDomain))
				Expect(a.B).To(Equal(experiment.StateSpace))
				Expect(a.Passed()).To(BeTrue(), "max rel %g", a.MaxRel)
			}
		})

		It("reaches the steady-state amplitude |H(jω)|", func() {
			Expect(rep.Summaries[0].Frequency).NotTo(BeNil())
			Expect(rep.Summaries[0].Frequency.Expected).To(BeNumerically("~", 0.03304, 1e-4))
			for _, s := range rep.Summaries {
				f := s.Frequency
				Expect(f.DriveHz).To(Equal(0.5))
				Expect(f.TimeDomain).To(BeNumerically("~", f.Expected, 0.02*f.Expected))
				Expect(f.StateSpace).To(BeNumerically("~", f.Expected, 0.02*f.Expected))
			}
		})

		It("titles the figures after the method", func() {
			Expect(rep.FigureTitle(experiment.TimeDomain)).To(Equal("RLC Circuit Response (Time-Domain)"))
			Expect(rep.FigureTitle(experiment.StateSpace)).To(Equal("RLC Circuit Response (State-Space)"))
			Expect(rep.OutputLabel).To(Equal("Current"))
			Expect(math.IsNaN(rep.Summaries[0].StoredEnergy)).To(BeTrue())
		})
	})

	Context("with the source preset", func() {
		It("warns about labels that contradict the coefficients", func() {
			var buf bytes.Buffer
			reg := experiment.NewRegistry()
			plans, err := reg.Plans(config.GetPreset("source"))
			Expect(err).NotTo(HaveOccurred())

			reports, err := experiment.NewComparator(reg, zerolog.New(&buf)).RunAll(context.Background(), plans)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(2))

			spring, circuit := reports[0], reports[1]
			Expect(spring.System).To(Equal(experiment.SpringMass))
			Expect(spring.Summaries[1].Regime).To(Equal(physics.Underdamped))
			Expect(spring.Summaries[1].LabelMatches).To(BeFalse())
			Expect(spring.Summaries[1].Zeta).To(BeNumerically("~", 1/math.Sqrt2, 1e-12))

			for _, s := range circuit.Summaries {
				Expect(s.Regime).To(Equal(physics.Underdamped))
			}
			Expect(circuit.Summaries[0].LabelMatches).To(BeTrue())
			Expect(circuit.Summaries[2].LabelMatches).To(BeFalse())

			Expect(buf.String()).To(ContainSubstring("regime label does not match the damping coefficient"))
			Expect(buf.String()).To(ContainSubstring(`"level":"warn"`))
		})
	})

	Context("with other drives and integrators", func() {
		It("agrees exactly under a ramp", func() {
			cfg := config.GetPreset("ramp")
			for _, system := range experiment.Systems {
				rep := runSystem(cfg, system)
				Expect(rep.Agreements).To(HaveLen(3))
				Expect(rep.Disagreements()).To(BeEmpty())
			}
		})

		It("supports fixed-step RK4", func() {
			rep := runSystem(config.GetPreset("fixed-step"), experiment.SpringMass)
			Expect(rep.Disagreements()).To(BeEmpty())
			Expect(rep.Summaries[0].Stats.Rejected).To(BeZero())
		})
	})

	It("is deterministic", func() {
		a := runSystem(config.DefaultConfig(), experiment.RLC)
		b := runSystem(config.DefaultConfig(), experiment.RLC)
		Expect(a.Responses).To(HaveLen(len(b.Responses)))
		for i := range a.Responses {
			Expect(a.Responses[i].Values).To(Equal(b.Responses[i].Values))
		}
	})

	Context("when a run cannot complete", func() {
		var reg *experiment.Registry

		BeforeEach(func() {
			reg = experiment.NewRegistry()
		})

		It("rejects non-physical coefficients", func() {
			cfg := config.DefaultConfig()
			cfg.Spring.Mass = 0
			_, err := reg.NewPlan(experiment.SpringMass, cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))

			cfg = config.DefaultConfig()
			cfg.RLC.Regimes = []config.RegimeConfig{{Label: "bad", Coefficient: -1}}
			plan, err := reg.NewPlan(experiment.RLC, cfg)
			Expect(err).NotTo(HaveOccurred())
			_, err = experiment.NewComparator(reg, zerolog.Nop()).Run(context.Background(), plan)
			Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		})

		It("surfaces integration failures", func() {
			cfg := config.DefaultConfig()
			cfg.Solver.MaxSteps = 10
			plan, err := reg.NewPlan(experiment.SpringMass, cfg)
			Expect(err).NotTo(HaveOccurred())

			_, err = experiment.NewComparator(reg, zerolog.Nop()).Run(context.Background(), plan)
			Expect(err).To(MatchError(dynamo.ErrIntegrationFailure))
			Expect(err).To(MatchError(dynamo.ErrStepBudget))
		})

		It("stops when the context is cancelled", func() {
			plan, err := reg.NewPlan(experiment.SpringMass, config.DefaultConfig())
			Expect(err).NotTo(HaveOccurred())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err = experiment.NewComparator(reg, zerolog.Nop()).Run(ctx, plan)
			Expect(err).To(MatchError(context.Canceled))
		})

		It("rejects unknown names", func() {
			cfg := config.DefaultConfig()
			cfg.Solver.Integrator = "leapfrog"
			_, err := reg.NewPlan(experiment.SpringMass, cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown integrator")))

			_, err = reg.NewPlan("pendulum", config.DefaultConfig())
			Expect(err).To(MatchError(ContainSubstring("unknown system")))

			cfg = config.DefaultConfig()
			cfg.RLC.Drive.Kind = "square"
			_, err = reg.NewPlan(experiment.RLC, cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown excitation")))
		})

		It("rejects grids that do not start when the drive switches on", func() {
			for _, start := range []float64{-1, 1} {
				cfg := config.GetPreset("step")
				cfg.Spring.Grid.Start, cfg.Spring.Grid.Stop = start, start+10
				_, err := reg.NewPlan(experiment.SpringMass, cfg)
				Expect(err).To(MatchError(dynamo.ErrInvalidGrid))
			}
		})
	})
})

var _ = Describe("Registry", func() {
	It("lists its components in sorted order", func() {
		reg := experiment.NewRegistry()
		Expect(reg.ListModels()).To(Equal([]string{experiment.RLC, experiment.SpringMass}))
		Expect(reg.ListIntegrators()).To(Equal([]string{"euler", "rk4", "rk45"}))
		Expect(reg.ListExcitations()).To(Equal([]string{"ramp", "sine", "step"}))
	})

	It("validates excitation parameters", func() {
		_, err := experiment.NewRegistry().GetExcitation(config.DriveConfig{Kind: "sine", Amplitude: 1})
		Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
	})
})
