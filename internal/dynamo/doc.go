// Package dynamo provides core simulation primitives for linear dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// solvers:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//   - [AdaptiveIntegrator]: stepper with embedded error control
//   - [TimeGrid]: evenly spaced sample times shared by every solver
//
// # Errors
//
// Failures are reported with sentinel errors that callers match with
// [errors.Is]: [ErrInvalidParameter] for non-physical coefficients,
// [ErrIntegrationFailure] for numerical breakdown and [ErrRendering] for
// unavailable output targets.
package dynamo
