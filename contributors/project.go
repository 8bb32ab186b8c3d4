// SPDX-License-Identifier: MIT

package contributors

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// finiteRows returns the rows of x whose entries are all finite.
func finiteRows(x *mat.Dense) []int {
	points, cols := x.Dims()
	rows := make([]int, 0, points)
	for p := 0; p < points; p++ {
		ok := true
		for k := 0; k < cols; k++ {
			if v := x.At(p, k); math.IsNaN(v) || math.IsInf(v, 0) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, p)
		}
	}

	return rows
}

// project fills the unknown cells of coef channel by channel with the
// minimum-norm least-squares solution and returns the rank deficit.
func (l *Linear) project(x *mat.Dense, observed mat.Matrix, coef *mat.Dense) int {
	rows := finiteRows(x)
	deficit := 0
	var svd mat.SVD
	for ch, unk := range l.perChannel {
		if len(unk) == 0 {
			continue
		}
		m := 0
		for _, p := range rows {
			if y := observed.At(p, ch); !math.IsNaN(y) && !math.IsInf(y, 0) {
				m++
			}
		}
		if m == 0 {
			deficit = max(deficit, len(unk))
			continue
		}

		// y = observed − known contribution; A = unknown contributor columns.
		a := mat.NewDense(m, len(unk), nil)
		y := mat.NewDense(m, 1, nil)
		i := 0
		for _, p := range rows {
			obs := observed.At(p, ch)
			if math.IsNaN(obs) || math.IsInf(obs, 0) {
				continue
			}
			for k := range l.contributors {
				obs -= x.At(p, k) * l.known.At(k, ch)
			}
			y.Set(i, 0, obs)
			for j, k := range unk {
				a.Set(i, j, x.At(p, k))
			}
			i++
		}

		if !svd.Factorize(a, mat.SVDThin) {
			deficit = max(deficit, len(unk))
			continue
		}
		rank := svd.Rank(l.rcond)
		deficit = max(deficit, len(unk)-rank)
		if rank == 0 {
			continue
		}
		var sol mat.Dense
		svd.SolveTo(&sol, y, rank)
		for j, k := range unk {
			coef.Set(k, ch, sol.At(j, 0))
		}
	}

	return deficit
}
