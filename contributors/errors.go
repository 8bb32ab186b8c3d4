// SPDX-License-Identifier: MIT

package contributors

import (
	"errors"
	"fmt"
)

var (
	// ErrNoContributors indicates a model without contributing species.
	ErrNoContributors = errors.New("contributors: no contributing species")

	// ErrBadSpecies indicates an out-of-range or repeated species index.
	ErrBadSpecies = errors.New("contributors: invalid species index")

	// ErrBadShape indicates mismatched coefficient, species or signal shapes.
	ErrBadShape = errors.New("contributors: malformed shape")

	// ErrObservedRequired indicates a projected model run without data.
	ErrObservedRequired = errors.New("contributors: observed signal required for projection")

	// ErrBadCoefficient indicates a non-finite known coefficient.
	ErrBadCoefficient = errors.New("contributors: invalid coefficient")
)

func contributorsErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
