// SPDX-License-Identifier: MIT

package fit

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/speciation"
)

// Status describes how a fit ended.
type Status struct {
	Converged    bool
	Iterations   int
	Evaluations  int
	Cost         float64 // ½‖r‖² of the weighted residuals
	ResidualNorm float64 // ‖r‖
	RMS          float64 // ‖r‖ / sqrt(len(r))
	Reason       string
	Elapsed      time.Duration
}

// DatasetResult is the fitted signal of one dataset.
type DatasetResult struct {
	Name         string
	Predicted    *mat.Dense // points × channels
	Coefficients *mat.Dense // contributors × channels
	Residuals    *mat.Dense // predicted − observed, unweighted
	RMS          float64    // RMS of Residuals in signal units
}

// Result is a successful fit.
type Result struct {
	// RunID correlates log lines and downstream reports of one Fit call.
	RunID string

	// Names and Params are the fitted unknowns in registry order. Constants
	// are log10 values, concentrations are molar.
	Names  []string
	Params []float64

	// StdErrors are the asymptotic standard errors of Params, NaN when the
	// problem has no spare degrees of freedom.
	StdErrors []float64

	// LogK is the full log10 constant vector; K is the linear one.
	LogK []float64
	K    []float64

	Totals     *mat.Dense
	Speciation *speciation.Result
	Signals    []DatasetResult

	// Residuals is the weighted residual vector at the optimum.
	Residuals []float64

	Status Status
}
