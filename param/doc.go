// SPDX-License-Identifier: MIT

// Package param holds the typed parameter catalogue shared by every model of
// the titration engine.
//
// What & Why:
//
//	Every numeric slot a user can leave blank (an equilibrium constant, a stock
//	concentration, a molar absorptivity) is a Value: either Known(v) or
//	Unknown(name, guess). Models expose their unknowns through the Model
//	interface, and a Registry lays those unknowns out in one flat vector for
//	the optimizer, handing each model a Range instead of relying on call order.
//
// Determinism:
//
//	Registration order is the vector order. Names and guesses are copied on
//	registration, so later mutation of a model's slices cannot shift ranges.
package param
