// SPDX-License-Identifier: MIT

// Package residual concatenates the weighted residuals of several observed
// datasets into the single vector minimised by the fitter.
//
// Each dataset d gets one weight w_d fixed at construction, so datasets in
// different units contribute comparably. The residual of cell (p, ch) of
// dataset d is w_d · (predicted − observed). Datasets are laid out in
// order, each row-major, which makes the output order-stable across calls.
// Points flagged invalid by the speciation step receive a constant penalty
// in every channel instead.
package residual
