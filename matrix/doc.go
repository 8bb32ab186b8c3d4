// SPDX-License-Identifier: MIT

// Package matrix collects the small, deterministic helpers that the titration
// engine needs around gonum's *mat.Dense: table ingestion, validation against
// a strict numeric policy, row reductions and tolerance-based comparison.
//
// What & Why:
//
//	All numeric arrays of the engine (stoichiometry, total concentrations,
//	addition volumes, observed signals) are gonum matrices. Construction and
//	shape checks are centralised here so every component fails fast with the
//	same sentinel errors instead of panicking inside gonum.
//
// Determinism:
//
//	Every loop walks rows then columns in index order; nothing depends on map
//	iteration or goroutine scheduling.
//
// AI-Hints:
//   - Use FromRows to turn user tables into *mat.Dense; it rejects ragged and
//     empty input before gonum can panic on it.
//   - Validate* functions return plain sentinels wrapped with a validator tag;
//     match them with errors.Is.
package matrix
