// SPDX-License-Identifier: MIT

package concentration

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape indicates mismatched table, name or volume dimensions.
	ErrBadShape = errors.New("concentration: malformed shape")

	// ErrZeroVolume indicates a titration point with no delivered volume.
	ErrZeroVolume = errors.New("concentration: zero total volume")

	// ErrNegative indicates a negative volume or known concentration.
	ErrNegative = errors.New("concentration: negative value")

	// ErrNotFinite indicates a NaN or infinite input value.
	ErrNotFinite = errors.New("concentration: non-finite value")
)

func concentrationErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
