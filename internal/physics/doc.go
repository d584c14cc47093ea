// Package physics provides the second-order linear models compared by
// dampsim and the regime table that turns one nominal model into its
// underdamped, critically damped and overdamped variants.
//
// Each model implements [Model]: it is a [dynamo.System] for time-domain
// integration and also exposes its characteristic polynomial
// a2·s² + a1·s + a0, its transfer function and its state-space realisation:
//
//   - [MassSpringDamper]: m·x'' + b·x' + k·x = F(t), output displacement
//   - [SeriesRLC]: L·i'' + R·i' + i/C = dV/dt, output current
//
// Models are immutable. [Model.WithDamping] returns a copy with a different
// damping coefficient, which is how [BuildRegimes] derives the variants:
//
//	nominal, _ := physics.NewMassSpringDamper(1, 0, 2)
//	variants, err := physics.BuildRegimes(nominal, []physics.RegimeSpec{
//	    {Label: "Underdamped", Coefficient: 1},
//	    {Label: "Critically Damped", Ratio: 1},
//	    {Label: "Overdamped", Coefficient: 5},
//	})
//
// [Driven] binds a model to an excitation signal so the generic simulator
// can integrate it without an external control input.
package physics
