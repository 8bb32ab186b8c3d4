// SPDX-License-Identifier: MIT

package equilibrium

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSpecies indicates a stoichiometry without free or bound species.
	ErrNoSpecies = errors.New("equilibrium: no species")

	// ErrBadShape indicates ragged rows or a name/row/column count mismatch.
	ErrBadShape = errors.New("equilibrium: malformed shape")

	// ErrDuplicateComplex indicates two bound species with identical
	// stoichiometry rows; their constants could not be told apart.
	ErrDuplicateComplex = errors.New("equilibrium: duplicate complex")

	// ErrEmptyComplex indicates a bound species whose row is all zeros.
	ErrEmptyComplex = errors.New("equilibrium: complex formed from nothing")

	// ErrBadFactor indicates a negative or non-finite statistical factor.
	ErrBadFactor = errors.New("equilibrium: invalid statistical factor")

	// ErrBadConstant indicates a known constant (or guess) that is negative,
	// NaN or infinite, or a zero micro-constant raised to a nonzero power.
	ErrBadConstant = errors.New("equilibrium: invalid constant")
)

// equilibriumErrorf wraps err with an operation tag.
func equilibriumErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
