// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// All helpers return these sentinels (optionally wrapped with a call-site tag)
// and tests check them via errors.Is. No helper panics on user input.

package matrix

import "errors"

var (
	// ErrNilMatrix indicates that a nil matrix (or nil *mat.Dense) was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrEmpty indicates a table with zero rows or zero columns. gonum cannot
	// represent such matrices, so they are rejected at ingestion.
	ErrEmpty = errors.New("matrix: empty table")

	// ErrRagged indicates a table whose rows have different lengths.
	ErrRagged = errors.New("matrix: ragged rows")

	// ErrDimensionMismatch indicates incompatible dimensions between operands
	// or between a matrix and the shape a component expects.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNegative signals a negative entry where the policy requires >= 0
	// (concentrations, volumes).
	ErrNegative = errors.New("matrix: negative entry")
)
