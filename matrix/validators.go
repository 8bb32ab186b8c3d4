// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Provide a single, canonical source of truth for shape and value checks.
//  - Return plain sentinel errors wrapped with the validator tag so call sites
//    can add their own context uniformly.
//
// Determinism & Performance:
//  - All checks are pure, deterministic and allocate nothing.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validatorErrorf wraps an underlying error with the given validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// isNil reports whether m is a nil interface or a typed nil *mat.Dense.
func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	if d, ok := m.(*mat.Dense); ok && d == nil {
		return true
	}

	return false
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Returns ErrNilMatrix if m is nil or a typed nil *mat.Dense.
// Complexity: O(1).
func ValidateNotNil(m mat.Matrix) error {
	if isNil(m) {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateShape ensures m is non-nil and exactly rows×cols.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(1).
func ValidateShape(m mat.Matrix, rows, cols int) error {
	if isNil(m) {
		return validatorErrorf("ValidateShape", ErrNilMatrix)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return validatorErrorf(fmt.Sprintf("ValidateShape: got %dx%d, want %dx%d", r, c, rows, cols),
			ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects any NaN or ±Inf entry.
//
// Errors: ErrNilMatrix, ErrNaNInf (with the offending coordinates).
// Complexity: O(r*c).
func ValidateFinite(m mat.Matrix) error {
	if isNil(m) {
		return validatorErrorf("ValidateFinite", ErrNilMatrix)
	}
	r, c := m.Dims()
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v = m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return validatorErrorf(fmt.Sprintf("ValidateFinite(%d,%d)", i, j), ErrNaNInf)
			}
		}
	}

	return nil
}

// ValidateNonNegativeFinite rejects NaN/±Inf (ErrNaNInf) and negative entries
// (ErrNegative), scanning in i→j order and reporting the first violation.
//
// Complexity: O(r*c).
func ValidateNonNegativeFinite(m mat.Matrix) error {
	if err := ValidateFinite(m); err != nil {
		return err
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) < 0 {
				return validatorErrorf(fmt.Sprintf("ValidateNonNegativeFinite(%d,%d)", i, j), ErrNegative)
			}
		}
	}

	return nil
}

// ValidateVecLen ensures the vector length matches the required size n.
// Time: O(1). Space: O(1).
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return validatorErrorf(fmt.Sprintf("ValidateVecLen: got %d, want %d", len(x), n), ErrDimensionMismatch)
	}

	return nil
}

// ValidateTable checks that rows is a non-empty rectangular table and returns
// its dimensions. A non-negative wantCols additionally pins the column count.
//
// Errors: ErrEmpty, ErrRagged, ErrDimensionMismatch.
// Complexity: O(rows).
func ValidateTable[T any](rows [][]T, wantCols int) (int, int, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, 0, validatorErrorf("ValidateTable", ErrEmpty)
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return 0, 0, validatorErrorf(fmt.Sprintf("ValidateTable: row %d", i), ErrRagged)
		}
	}
	if wantCols >= 0 && cols != wantCols {
		return 0, 0, validatorErrorf(fmt.Sprintf("ValidateTable: got %d columns, want %d", cols, wantCols),
			ErrDimensionMismatch)
	}

	return len(rows), cols, nil
}
