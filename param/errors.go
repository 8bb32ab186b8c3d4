// SPDX-License-Identifier: MIT

package param

import (
	"errors"
	"fmt"
)

var (
	// ErrCountMismatch is returned when a model receives a variable slice whose
	// length differs from its declared VariableNames. It is a programming or
	// configuration error and must never be masked.
	ErrCountMismatch = errors.New("param: variable count mismatch")

	// ErrGuessCount indicates that a model declared a different number of
	// initial guesses than variable names.
	ErrGuessCount = errors.New("param: names and initial guesses differ in length")

	// ErrEmptyOwner indicates a registration without an owner label.
	ErrEmptyOwner = errors.New("param: empty owner")

	// ErrNilModel indicates a nil Model passed to Register.
	ErrNilModel = errors.New("param: nil model")
)

// CheckCount verifies that vars has exactly want entries.
// The returned error wraps ErrCountMismatch with both lengths.
func CheckCount(vars []float64, want int) error {
	if len(vars) != want {
		return fmt.Errorf("%w: got %d, want %d", ErrCountMismatch, len(vars), want)
	}

	return nil
}
