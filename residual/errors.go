// SPDX-License-Identifier: MIT

package residual

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData indicates a combiner built without datasets.
	ErrNoData = errors.New("residual: no datasets")

	// ErrBadShape indicates predicted or invalid slices that do not match
	// the observed datasets.
	ErrBadShape = errors.New("residual: shape mismatch")

	// ErrNotFinite indicates NaN or infinite observations or penalty.
	ErrNotFinite = errors.New("residual: non-finite value")
)

func residualErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
