// SPDX-License-Identifier: MIT

package matrix

import (
	"gonum.org/v1/gonum/mat"
)

// FromRows copies a rectangular [][]float64 table into a new *mat.Dense.
//
// Errors: ErrEmpty, ErrRagged (from ValidateTable).
// Complexity: Time O(r*c), Space O(r*c).
func FromRows(rows [][]float64) (*mat.Dense, error) {
	r, c, err := ValidateTable(rows, -1)
	if err != nil {
		return nil, err
	}
	data := make([]float64, 0, r*c)
	for _, row := range rows {
		data = append(data, row...)
	}

	return mat.NewDense(r, c, data), nil
}

// ToRows copies m into a freshly allocated [][]float64.
// Complexity: Time O(r*c), Space O(r*c).
func ToRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = m.At(i, j)
		}
	}

	return out
}

// Flatten appends the entries of m to dst in row-major order and returns the
// extended slice.
// Complexity: Time O(r*c).
func Flatten(dst []float64, m mat.Matrix) []float64 {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst = append(dst, m.At(i, j))
		}
	}

	return dst
}
