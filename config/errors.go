// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode indicates malformed YAML or unknown fields.
	ErrDecode = errors.New("config: cannot decode titration description")

	// ErrInvalid indicates a well-formed description with inconsistent or
	// unsupported content.
	ErrInvalid = errors.New("config: invalid titration description")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}
