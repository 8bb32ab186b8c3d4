// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/residual"
)

// Fit minimises the weighted residuals from the registered initial guesses.
//
// Failures are returned as *Error wrapping ErrNotConverged, ErrTimeLimit,
// ErrIllPosed, ErrInfeasible or the context error. Configuration problems
// surfaced by the pipeline are returned unwrapped.
func (f *Fitter) Fit(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := f.opts.logger.With("run", runID)
	n, m := f.reg.Len(), f.comb.Len()
	log.Info("fit started", "unknowns", n, "residuals", m, "method", f.opts.method.String())

	var deadline time.Time
	if f.opts.timeLimit > 0 {
		deadline = start.Add(f.opts.timeLimit)
	}

	x0 := f.reg.InitialGuesses()
	obj := newObjective(f, x0, log)
	u := obj.toScaled(x0)

	var (
		st  Status
		err error
	)
	switch {
	case n == 0:
		if err = budget(ctx, deadline); err == nil {
			st = Status{Converged: true, Reason: "no unknowns"}
		}
	case f.opts.method == MethodLevenbergMarquardt:
		u, st, err = f.levenbergMarquardt(ctx, obj, u, deadline)
	default:
		u, st, err = f.minimize(ctx, obj, u, deadline)
	}
	st.Evaluations = obj.evals
	st.Elapsed = time.Since(start)
	if err != nil {
		if err == obj.err {
			return nil, err
		}
		log.Warn("fit failed", "err", err, "iterations", st.Iterations, "cost", st.Cost)
		return nil, &Error{Status: st, Err: err}
	}

	x := obj.toX(u)
	ev, err := f.Residuals(x, nil)
	if err != nil {
		return nil, err
	}
	summary := residual.Summary(ev.Residuals)
	st.Cost = ev.Cost()
	st.ResidualNorm = summary.Norm
	st.RMS = summary.RMS

	fail := func(cause error) (*Result, error) {
		st.Converged = false
		log.Warn("fit rejected", "err", cause)
		return nil, &Error{Status: st, Err: cause}
	}
	if ev.Penalized > 0 {
		return fail(fmt.Errorf("%w: %d points", ErrInfeasible, ev.Penalized))
	}
	if ev.Deficit > 0 {
		return fail(fmt.Errorf("%w: projected coefficients rank deficient by %d", ErrIllPosed, ev.Deficit))
	}

	stdErr := make([]float64, n)
	if n > 0 {
		J := obj.jacobian(u, append([]float64(nil), ev.Residuals...))
		if obj.err != nil {
			return nil, obj.err
		}
		if ratio := conditionRatio(J); f.opts.rcond > 0 && ratio < f.opts.rcond {
			return fail(fmt.Errorf("%w: singular value ratio %.3g", ErrIllPosed, ratio))
		}
		stdErr = standardErrors(J, obj.scale, 2*st.Cost, f.degreesOfFreedom())
	}

	res := &Result{
		RunID:      runID,
		Names:      f.reg.Names(),
		Params:     x,
		StdErrors:  stdErr,
		LogK:       ev.LogK,
		K:          equilibrium.LinearK(ev.LogK),
		Totals:     ev.Totals,
		Speciation: ev.Speciation,
		Residuals:  ev.Residuals,
		Status:     st,
	}
	for d, ds := range f.t.Datasets {
		out := ev.Outputs[d]
		var diff mat.Dense
		diff.Sub(out.Predicted, ds.Observed)
		res.Signals = append(res.Signals, DatasetResult{
			Name:         ds.Name,
			Predicted:    out.Predicted,
			Coefficients: out.Coefficients,
			Residuals:    &diff,
			RMS:          residual.Summary(diff.RawMatrix().Data).RMS,
		})
	}
	f.last = res
	log.Info("fit finished", "iterations", st.Iterations, "evaluations", st.Evaluations,
		"cost", st.Cost, "reason", st.Reason, "elapsed", st.Elapsed)

	return res, nil
}

// conditionRatio returns σ_min/σ_max of J after scaling every column to unit
// norm. A zero column or fewer rows than columns gives 0.
func conditionRatio(J *mat.Dense) float64 {
	m, n := J.Dims()
	if m < n {
		return 0
	}
	Jn := mat.DenseCopyOf(J)
	for j := 0; j < n; j++ {
		norm := mat.Norm(Jn.ColView(j), 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return 0
		}
		for i := 0; i < m; i++ {
			Jn.Set(i, j, Jn.At(i, j)/norm)
		}
	}
	var svd mat.SVD
	if !svd.Factorize(Jn, mat.SVDNone) {
		return 0
	}
	s := svd.Values(nil)

	return s[len(s)-1] / s[0]
}

// standardErrors returns sqrt(diag((J_xᵀJ_x)⁻¹) · s²) with s² = ssr/dof,
// where J_x is the Jacobian with respect to the unscaled parameters.
func standardErrors(Ju *mat.Dense, scale []float64, ssr float64, dof int) []float64 {
	m, n := Ju.Dims()
	out := make([]float64, n)
	for j := range out {
		out[j] = math.NaN()
	}
	if dof <= 0 {
		return out
	}
	Jx := mat.NewDense(m, n, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			Jx.Set(i, j, Ju.At(i, j)/scale[j])
		}
	}
	A := mat.NewSymDense(n, nil)
	A.SymOuterK(1, Jx.T())
	var chol mat.Cholesky
	if !chol.Factorize(A) {
		return out
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return out
	}
	s2 := ssr / float64(dof)
	for j := range out {
		out[j] = math.Sqrt(cov.At(j, j) * s2)
	}

	return out
}

// degreesOfFreedom is the residual count minus every fitted quantity:
// optimizer variables and coefficients solved by projection.
func (f *Fitter) degreesOfFreedom() int {
	dof := f.comb.Len() - f.reg.Len()
	for _, ds := range f.t.Datasets {
		if ds.Model.Projected() {
			dof -= ds.Model.NumUnknown()
		}
	}

	return dof
}
