// SPDX-License-Identifier: MIT

package speciation

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/matrix"
)

// Solver computes the speciation of every titration point.
// A Solver is immutable and safe for concurrent use.
type Solver struct {
	st    *equilibrium.Stoichiometry
	s     [][]float64 // numBound × numFree exponents
	nFree int
	nBnd  int
	opts  Options
}

// NewSolver binds a stoichiometry and solver options.
// Errors: ErrNilStoichiometry, ErrBadOptions.
func NewSolver(st *equilibrium.Stoichiometry, opts Options) (*Solver, error) {
	if st == nil {
		return nil, speciationErrorf("NewSolver", ErrNilStoichiometry)
	}
	o, err := opts.normalize()
	if err != nil {
		return nil, speciationErrorf("NewSolver", err)
	}
	sv := &Solver{
		st:    st,
		s:     make([][]float64, st.NumBound()),
		nFree: st.NumFree(),
		nBnd:  st.NumBound(),
		opts:  o,
	}
	for b := range sv.s {
		sv.s[b] = make([]float64, sv.nFree)
		for i := range sv.s[b] {
			sv.s[b][i] = float64(st.Coeff(b, i))
		}
	}

	return sv, nil
}

// Options returns the effective (normalized) options.
func (sv *Solver) Options() Options { return sv.opts }

// Stoichiometry returns the bound stoichiometry.
func (sv *Solver) Stoichiometry() *equilibrium.Stoichiometry { return sv.st }

// Result holds the speciation of all points.
type Result struct {
	// Free is points × free; Bound is points × bound.
	Free, Bound *mat.Dense

	// Valid[p] is false when point p failed; its rows are NaN.
	Valid []bool

	// Iterations[p] is the number of Newton iterations used at point p.
	Iterations []int
}

// Species returns the points × (free+bound) concentration matrix, free
// columns first.
func (r *Result) Species() *mat.Dense {
	var out mat.Dense
	out.Augment(r.Free, r.Bound)

	return &out
}

// InvalidPoints returns the indices of failed points in ascending order.
func (r *Result) InvalidPoints() []int {
	var out []int
	for p, ok := range r.Valid {
		if !ok {
			out = append(out, p)
		}
	}

	return out
}

// Solve computes free and bound concentrations for every row of totals.
//
// logK holds one log10 constant per complex (-Inf: K = 0). totals is
// points × free. Shape mismatches are configuration errors (ErrBadShape);
// numerical trouble is reported per point through Result.Valid.
//
// Complexity: O(P · iters · (B·F² + F³)).
func (sv *Solver) Solve(logK []float64, totals mat.Matrix) (*Result, error) {
	if err := matrix.ValidateVecLen(logK, sv.nBnd); err != nil {
		return nil, speciationErrorf("Solve: constants", fmt.Errorf("%w: %v", ErrBadShape, err))
	}
	if err := matrix.ValidateNotNil(totals); err != nil {
		return nil, speciationErrorf("Solve: totals", fmt.Errorf("%w: %v", ErrBadShape, err))
	}
	points, cols := totals.Dims()
	if cols != sv.nFree {
		return nil, speciationErrorf(fmt.Sprintf("Solve: %d total columns for %d free species", cols, sv.nFree),
			ErrBadShape)
	}

	res := &Result{
		Free:       mat.NewDense(points, sv.nFree, nil),
		Bound:      mat.NewDense(points, sv.nBnd, nil),
		Valid:      make([]bool, points),
		Iterations: make([]int, points),
	}
	T := mat.DenseCopyOf(totals)

	workers := sv.opts.Workers
	if workers > points {
		workers = points
	}
	if workers <= 1 {
		ws := sv.newWorkspace()
		var seed []float64
		for p := 0; p < points; p++ {
			sv.solveRow(ws, logK, T, res, p, seed)
			if sv.opts.WarmStart && res.Valid[p] {
				seed = res.Free.RawRowView(p)
			} else {
				seed = nil
			}
		}

		return res, nil
	}

	// Strided partition: worker w owns points w, w+workers, ...
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			ws := sv.newWorkspace()
			for p := w; p < points; p += workers {
				sv.solveRow(ws, logK, T, res, p, nil)
			}
		}(w)
	}
	wg.Wait()

	return res, nil
}

// solveRow solves point p and writes its rows of res.
func (sv *Solver) solveRow(ws *workspace, logK []float64, T *mat.Dense, res *Result, p int, seed []float64) {
	free := res.Free.RawRowView(p)
	bound := res.Bound.RawRowView(p)
	iters, ok := sv.solvePoint(ws, logK, T.RawRowView(p), seed, free, bound)
	res.Iterations[p] = iters
	res.Valid[p] = ok
	if !ok {
		for i := range free {
			free[i] = math.NaN()
		}
		for b := range bound {
			bound[b] = math.NaN()
		}
	}
}
