// SPDX-License-Identifier: MIT

// Package equilibrium describes the chemistry of a titration: which free
// components exist, which complexes they form, and how the formation constant
// of every complex is obtained from the unknowns being fitted.
//
// What & Why:
//
//	A Stoichiometry is the (numBound × numFree) integer matrix of formation
//	exponents. Row b reads "complex b is formed from S[b,i] units of free
//	species i". Identical rows would make two constants indistinguishable,
//	so they are rejected at construction.
//
//	A Model maps the fitted variables to one log10 K per complex. Three
//	variants exist:
//	  - All:     every constant is an unknown; Run is the identity.
//	  - Partial: some constants are fixed, the unknowns are spliced into the
//	             remaining slots in their original order.
//	  - Custom:  global constants are products of micro-constants,
//	             K_j = s_j · Π_i m_i^E[i][j], evaluated in log space.
//
// Scale convention:
//
//	Fitted variables and Run outputs are log10 values so that the optimizer
//	works on an unconstrained domain spanning many orders of magnitude. User
//	facing inputs (known constants, guesses) are linear. A constant of
//	exactly zero is represented as log10 K = -Inf and yields no complex.
//
// Errors:
//
//	Malformed shapes, duplicate or empty complexes, negative statistical
//	factors and invalid known constants are configuration errors reported by
//	the constructors. Run only fails with param.ErrCountMismatch.
//
// AI-Hints:
//   - Species() returns free names followed by bound names; every downstream
//     species-indexed matrix uses that order.
//   - Use LinearK to report constants on their natural scale.
package equilibrium
