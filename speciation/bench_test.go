// SPDX-License-Identifier: MIT
package speciation_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/speciation"
)

func benchTitration(b *testing.B, points int) (*equilibrium.Stoichiometry, *mat.Dense) {
	b.Helper()
	st, err := equilibrium.NewStoichiometry([]string{"H", "G"}, []string{"HG", "HG2", "H2G"},
		[][]int{{1, 1}, {1, 2}, {2, 1}})
	if err != nil {
		b.Fatal(err)
	}
	totals := mat.NewDense(points, 2, nil)
	for p := 0; p < points; p++ {
		totals.Set(p, 0, 1e-3)
		totals.Set(p, 1, 5e-3*float64(p+1)/float64(points))
	}

	return st, totals
}

func BenchmarkSolveSequential(b *testing.B) {
	st, totals := benchTitration(b, 200)
	sv, _ := speciation.NewSolver(st, speciation.DefaultOptions())
	logK := []float64{4, 6.5, 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sv.Solve(logK, totals)
	}
}

func BenchmarkSolveParallel(b *testing.B) {
	st, totals := benchTitration(b, 200)
	opts := speciation.DefaultOptions()
	opts.Workers = 4
	sv, _ := speciation.NewSolver(st, opts)
	logK := []float64{4, 6.5, 7}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = sv.Solve(logK, totals)
	}
}
