// SPDX-License-Identifier: MIT

// Package synth generates deterministic synthetic titrations: exact
// speciation for known constants, the resulting signal, and a copy with
// seeded Gaussian noise. It backs the end-to-end tests, the examples and
// the demo configuration of cmd/titrationfit.
//
// Determinism:
//   - Same Experiment (including Seed) ⇒ identical output on every platform.
//   - Seed == 0 selects a fixed default seed; no time-based sources.
//   - *rand.Rand is not goroutine-safe; derive one stream per goroutine with
//     DeriveSeed.
package synth
