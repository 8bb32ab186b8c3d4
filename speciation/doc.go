// SPDX-License-Identifier: MIT

// Package speciation solves the mass-balance equations of a titration at
// every point: given one log10 K per complex and the total concentration of
// every free component, it finds the free concentrations f > 0 such that
//
//	T_i = f_i + Σ_b S[b][i] · c_b,   c_b = K_b · Π_i f_i^S[b][i]
//
// Algorithm:
//
//	With u = ln f the residual r(u) is the gradient of the convex potential
//
//	  G(u) = Σ_i f_i + Σ_b c_b − Σ_i T_i · u_i
//
//	whose Hessian diag(f) + Sᵀ·diag(c)·S is symmetric positive definite.
//	Each point is solved by Newton's method on G: the step solves H·d = −r
//	by Cholesky, is capped to MaxLogStep in every coordinate and is
//	shortened by Armijo backtracking. A point has converged once
//	max_i |r_i| / max(T_i, f_i + Σ_b |S_bi|·c_b) ≤ Tolerance.
//
// Zero totals:
//
//	A free component whose total is exactly zero is removed from the point:
//	its free concentration and every complex containing it are reported as
//	0, never NaN.
//
// Failures:
//
//	Negative or non-finite totals, invalid constants and non-convergence are
//	per-point failures. The point is flagged in Result.Valid and its row is
//	filled with NaN; Solve itself only returns configuration errors.
//
// Concurrency:
//
//	With Workers == 1 points are solved in order and each point starts from
//	the previous converged solution (warm start). With Workers > 1 points
//	are independent: each starts from f = T and writes only its own rows.
package speciation
