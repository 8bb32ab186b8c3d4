// SPDX-License-Identifier: MIT

package equilibrium

import (
	"math"

	"github.com/katalvlaran/titration/param"
)

// DefaultLogKGuess seeds unknown constants without a usable guess (K = 1000).
const DefaultLogKGuess = 3.0

// Model maps fitted variables to one log10 K per complex.
//
// Run must be a pure function of kVars: repeated calls with the same input
// return identical slices. It fails only with param.ErrCountMismatch.
type Model interface {
	param.Model

	// NumConstants is the length of the slice returned by Run.
	NumConstants() int

	// Run returns log10 K for every complex. -Inf means K = 0.
	Run(kVars []float64) ([]float64, error)
}

// LinearK converts log10 constants to their linear scale (-Inf → 0).
func LinearK(logK []float64) []float64 {
	out := make([]float64, len(logK))
	for j, v := range logK {
		out[j] = math.Pow(10, v)
	}

	return out
}

// logOf converts a linear constant to log10, validating it.
// Zero maps to -Inf.
func logOf(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, ErrBadConstant
	}

	return math.Log10(v), nil
}

// logGuess converts a linear guess to log10, falling back to
// DefaultLogKGuess for non-positive or non-finite guesses.
func logGuess(g float64) float64 {
	if !(g > 0) || math.IsInf(g, 0) {
		return DefaultLogKGuess
	}

	return math.Log10(g)
}

// All treats every constant as an independent unknown.
type All struct {
	names []string
}

// NewAll returns the identity model over the given constant names.
// Errors: ErrNoSpecies when names is empty.
func NewAll(names []string) (*All, error) {
	if len(names) == 0 {
		return nil, equilibriumErrorf("NewAll", ErrNoSpecies)
	}

	return &All{names: append([]string(nil), names...)}, nil
}

// VariableNames implements param.Model.
func (a *All) VariableNames() []string { return append([]string(nil), a.names...) }

// VariableInitialGuesses implements param.Model.
func (a *All) VariableInitialGuesses() []float64 {
	out := make([]float64, len(a.names))
	for j := range out {
		out[j] = DefaultLogKGuess
	}

	return out
}

// NumConstants implements Model.
func (a *All) NumConstants() int { return len(a.names) }

// Run implements Model.
func (a *All) Run(kVars []float64) ([]float64, error) {
	if err := param.CheckCount(kVars, len(a.names)); err != nil {
		return nil, equilibriumErrorf("All.Run", err)
	}

	return append([]float64(nil), kVars...), nil
}
