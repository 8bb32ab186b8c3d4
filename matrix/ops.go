// SPDX-License-Identifier: MIT
// Package matrix - reductions over gonum matrices.
//
// Determinism & Performance:
//   - Fixed i→j loop order; a single allocation for the result.

package matrix

import "gonum.org/v1/gonum/mat"

// RowSums returns r where r[i] = sum_j m[i,j].
// Complexity: Time O(r*c), Space O(r).
//
// AI-Hints: total delivered volume per titration point is RowSums(volumes).
func RowSums(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	out := make([]float64, rows)
	var sum float64
	for i := 0; i < rows; i++ {
		sum = 0
		for j := 0; j < cols; j++ {
			sum += m.At(i, j)
		}
		out[i] = sum
	}

	return out
}
