package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a non-physical model coefficient.
	ErrInvalidParameter = errors.New("dynamo: invalid physical parameter")

	// ErrIntegrationFailure indicates the numerical backend failed to converge
	// or produced non-finite values.
	ErrIntegrationFailure = errors.New("dynamo: integration failure")

	// ErrRendering indicates the plot output target is unavailable.
	ErrRendering = errors.New("dynamo: rendering failed")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepRejected is returned by adaptive integrators when the local error
	// estimate exceeds the tolerance. The returned step size is the retry size.
	ErrStepRejected = errors.New("dynamo: step rejected by error control")

	// ErrStepBudget indicates the configured maximum step count was exceeded.
	ErrStepBudget = errors.New("dynamo: maximum step count exceeded")

	// ErrDimensionMismatch indicates mismatched state/input dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")

	// ErrInvalidGrid indicates a time grid that is too short or not increasing.
	ErrInvalidGrid = errors.New("dynamo: invalid time grid")

	// ErrImproperTransferFunction indicates a numerator of higher degree than
	// the denominator.
	ErrImproperTransferFunction = errors.New("dynamo: improper transfer function")
)

// ParameterError reports a rejected model coefficient.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("dynamo: invalid parameter %s=%g: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// RequirePositive returns a *ParameterError unless v is finite and > 0.
func RequirePositive(name string, v float64) error {
	if !isFinite(v) || v <= 0 {
		return &ParameterError{Name: name, Value: v, Reason: "must be positive"}
	}
	return nil
}

// RequireNonNegative returns a *ParameterError unless v is finite and >= 0.
func RequireNonNegative(name string, v float64) error {
	if !isFinite(v) || v < 0 {
		return &ParameterError{Name: name, Value: v, Reason: "must be non-negative"}
	}
	return nil
}

// SimulationError wraps an integration failure with simulation context.
// It always matches ErrIntegrationFailure.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() []error {
	return []error{ErrIntegrationFailure, e.Wrapped}
}

// RenderError wraps a failure to produce a figure for the named target.
// It always matches ErrRendering.
type RenderError struct {
	Target  string
	Wrapped error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Target, e.Wrapped)
}

func (e *RenderError) Unwrap() []error {
	return []error{ErrRendering, e.Wrapped}
}
