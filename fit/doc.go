// SPDX-License-Identifier: MIT

// Package fit drives the whole titration model against observed data.
//
// What & Why:
//
//	A Titration bundles the equilibrium model, the total-concentration model
//	and one contributor model per observed dataset. New registers their
//	unknowns in a param.Registry in a fixed order (constants, then
//	concentrations, then each dataset's coefficients) so every component
//	receives its own slice of the flat parameter vector.
//
//	One evaluation runs the pipeline
//
//	  x → log K → totals → speciation → predicted signals → residuals
//
//	and Fit minimises ½‖r‖² over x.
//
// Algorithm (default, Levenberg–Marquardt):
//  1. Work in scaled variables u_j = x_j / scale_j, scale_j = |x0_j| or 1.
//  2. Jacobian by finite differences (gonum diff/fd), forward or central.
//  3. Solve (JᵀJ + λ·diag(JᵀJ))·δ = −Jᵀr by Cholesky; accept the step when
//     the cost decreases (λ /= 10), otherwise λ *= 10 and retry.
//  4. Stop on relative cost reduction, step size or gradient tolerance.
//
// MethodNelderMead and MethodLBFGS delegate to gonum/optimize instead.
//
// Failure policy:
//   - Speciation failures at a trial point become a finite penalty residual
//     so the optimizer can step through infeasible regions.
//   - Running out of iterations (ErrNotConverged), time (ErrTimeLimit) or a
//     cancelled context ends the fit with a *Error; no partial result is
//     reported as success.
//   - A converged fit is still rejected with ErrIllPosed when its Jacobian
//     is numerically rank deficient or a projected dataset cannot determine
//     its coefficients, and with ErrInfeasible when the optimum contains
//     penalised points.
//
// Concurrency:
//
//	A Fitter is not safe for concurrent use. The only parallelism is inside
//	the speciation step when speciation.Options.Workers > 1. Cancellation is
//	checked between optimizer iterations.
package fit
