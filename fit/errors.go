// SPDX-License-Identifier: MIT

package fit

import (
	"errors"
	"fmt"
)

var (
	// ErrBadTitration indicates an inconsistent titration description.
	ErrBadTitration = errors.New("fit: invalid titration")

	// ErrNotConverged indicates that the iteration budget was exhausted.
	ErrNotConverged = errors.New("fit: did not converge")

	// ErrTimeLimit indicates that the time budget was exhausted.
	ErrTimeLimit = errors.New("fit: time limit exceeded")

	// ErrIllPosed indicates parameters the data cannot determine, e.g. two
	// constants that only enter as a product.
	ErrIllPosed = errors.New("fit: ill-posed problem")

	// ErrInfeasible indicates an optimum at which speciation still fails.
	ErrInfeasible = errors.New("fit: speciation failed at the optimum")
)

// Error is a fit-level failure. It carries the final status and unwraps to
// one of the sentinels above or to the context error.
type Error struct {
	Status Status
	Err    error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%v after %d iterations (cost %g)", e.Err, e.Status.Iterations, e.Status.Cost)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

func fitErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
