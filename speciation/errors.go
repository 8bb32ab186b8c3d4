// SPDX-License-Identifier: MIT

package speciation

import (
	"errors"
	"fmt"
)

var (
	// ErrNilStoichiometry indicates a Solver built without a stoichiometry.
	ErrNilStoichiometry = errors.New("speciation: nil stoichiometry")

	// ErrBadShape indicates constants or totals that do not match the
	// stoichiometry.
	ErrBadShape = errors.New("speciation: shape mismatch")

	// ErrBadOptions indicates negative or NaN solver options.
	ErrBadOptions = errors.New("speciation: invalid options")
)

func speciationErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
