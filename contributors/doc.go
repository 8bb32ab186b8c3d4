// SPDX-License-Identifier: MIT

// Package contributors maps species concentrations to a predicted signal:
//
//	signal[p][ch] = Σ_k x[p][k] · E[k][ch]
//
// where x[p][k] is the concentration of contributing species k at point p
// (optionally turned into a mole fraction) and E holds the contributor
// coefficients, e.g. molar absorptivities or limiting chemical shifts.
//
// Coefficients are param.Values. Unknown ones are found in one of two ways:
//   - Projected (default): for every channel the unknown coefficients are
//     the minimum-norm least-squares solution against the observed signal
//     minus the known part (variable projection). No optimizer variables
//     are registered.
//   - Nonlinear: every unknown coefficient is an optimizer variable named
//     "HG @ 450".
//
// Points whose concentrations are not finite are left out of the
// least-squares step and predicted as NaN.
package contributors
