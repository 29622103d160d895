// Package analysis runs AC and transient simulations over a finalized
// mnasim/pkg/circuit.Circuit, assembling and solving the MNA system at
// each frequency point or time step.
package analysis

import (
	"errors"
	"fmt"
)

// ErrBadInput is returned for structurally invalid analysis requests,
// such as an AC sweep with F1 <= 0 or F2 < F1.
var ErrBadInput = errors.New("analysis: bad input")

// ErrArithmeticDegenerate wraps a degenerate complex-arithmetic failure
// surfaced from mnasim/pkg/cplx while extracting AC element currents.
var ErrArithmeticDegenerate = errors.New("analysis: degenerate arithmetic")

// ErrSingularMatrix is returned when the MNA system is singular at a
// given frequency or time step.
var ErrSingularMatrix = errors.New("analysis: singular matrix")

// ErrNewtonNonConvergence is returned when a transient step's
// Newton-Raphson iteration exceeds its iteration budget without converging.
var ErrNewtonNonConvergence = errors.New("analysis: Newton-Raphson did not converge")

// StepError wraps an underlying analysis failure with the time or
// frequency at which it occurred.
type StepError struct {
	Time float64
	Freq float64
	IsAC bool
	Err  error
}

func (e *StepError) Error() string {
	if e.IsAC {
		return fmt.Sprintf("analysis: at freq=%g Hz: %v", e.Freq, e.Err)
	}
	return fmt.Sprintf("analysis: at t=%g s: %v", e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
