package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrNonFinite indicates a body whose position, velocity or acceleration
	// holds NaN or Inf, usually two bodies at zero separation.
	ErrNonFinite = errors.New("dynamo: non-finite body state (NaN or Inf detected)")

	// ErrEmptySystem indicates a system constructed without bodies.
	ErrEmptySystem = errors.New("dynamo: system needs at least one body")

	// ErrUnknownName indicates a preset, force law, ordering or scheme name
	// that nothing is registered under.
	ErrUnknownName = errors.New("dynamo: unknown name")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// BodyError attributes an error to one body of a system.
type BodyError struct {
	Index   int
	Name    string
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d (%s): %v", e.Index, e.Name, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with the step at which it surfaced.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.1fs): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
