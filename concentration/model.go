// SPDX-License-Identifier: MIT

package concentration

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// DefaultConcGuess seeds unknown concentrations without a positive guess (M).
const DefaultConcGuess = 1e-4

// Model computes the points × free total-concentration matrix.
type Model interface {
	param.Model

	NumPoints() int
	NumSpecies() int

	// Run returns a freshly allocated matrix; it fails only with
	// param.ErrCountMismatch.
	Run(vars []float64) (*mat.Dense, error)
}

// guessOf returns v's guess, or DefaultConcGuess when it is not positive.
func guessOf(v param.Value) float64 {
	if g := v.Guess(); g > 0 && !math.IsInf(g, 0) {
		return g
	}

	return DefaultConcGuess
}

// checkKnown validates a known concentration or volume.
func checkKnown(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return ErrNotFinite
	case v < 0:
		return ErrNegative
	}

	return nil
}

// mapMatrixErr translates matrix validation sentinels to this package's.
func mapMatrixErr(err error) error {
	switch {
	case errors.Is(err, matrix.ErrNaNInf):
		return fmt.Errorf("%w: %v", ErrNotFinite, err)
	case errors.Is(err, matrix.ErrNegative):
		return fmt.Errorf("%w: %v", ErrNegative, err)
	}

	return fmt.Errorf("%w: %v", ErrBadShape, err)
}

// Direct is a fully known total-concentration matrix.
type Direct struct {
	totals *mat.Dense
}

// NewDirect copies totals (points × free).
// Errors: ErrBadShape (nil), ErrNotFinite, ErrNegative.
func NewDirect(totals mat.Matrix) (*Direct, error) {
	if err := matrix.ValidateNotNil(totals); err != nil {
		return nil, concentrationErrorf("NewDirect", mapMatrixErr(err))
	}
	if err := matrix.ValidateNonNegativeFinite(totals); err != nil {
		return nil, concentrationErrorf("NewDirect", mapMatrixErr(err))
	}

	return &Direct{totals: mat.DenseCopyOf(totals)}, nil
}

// VariableNames implements param.Model.
func (d *Direct) VariableNames() []string { return nil }

// VariableInitialGuesses implements param.Model.
func (d *Direct) VariableInitialGuesses() []float64 { return nil }

// NumPoints implements Model.
func (d *Direct) NumPoints() int {
	r, _ := d.totals.Dims()

	return r
}

// NumSpecies implements Model.
func (d *Direct) NumSpecies() int {
	_, c := d.totals.Dims()

	return c
}

// Run implements Model.
func (d *Direct) Run(vars []float64) (*mat.Dense, error) {
	if err := param.CheckCount(vars, 0); err != nil {
		return nil, concentrationErrorf("Direct.Run", err)
	}

	return mat.DenseCopyOf(d.totals), nil
}
