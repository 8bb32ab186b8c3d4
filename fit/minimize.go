// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/optimize"
)

// budgetRecorder stops gonum's optimizers between major iterations when the
// context is done or the deadline has passed.
type budgetRecorder struct {
	ctx      context.Context
	deadline time.Time
	obj      *objective
}

func (b *budgetRecorder) Init() error { return nil }

func (b *budgetRecorder) Record(loc *optimize.Location, op optimize.Operation, stats *optimize.Stats) error {
	if op != optimize.MajorIteration {
		return nil
	}
	b.obj.log.Debug("iteration", "iter", stats.MajorIterations, "cost", loc.F)

	return budget(b.ctx, b.deadline)
}

// minimize delegates ½‖r(u)‖² to gonum/optimize.
func (f *Fitter) minimize(ctx context.Context, obj *objective, u []float64, deadline time.Time) ([]float64, Status, error) {
	o := f.opts
	p := optimize.Problem{Func: obj.cost}
	var method optimize.Method
	switch o.method {
	case MethodLBFGS:
		p.Grad = obj.gradient
		method = &optimize.LBFGS{}
	default:
		method = &optimize.NelderMead{}
	}
	settings := &optimize.Settings{
		MajorIterations:   o.maxIterations,
		GradientThreshold: o.gtol,
		Converger:         &optimize.FunctionConverge{Relative: o.ftol, Iterations: 20},
		Recorder:          &budgetRecorder{ctx: ctx, deadline: deadline, obj: obj},
	}

	res, err := optimize.Minimize(p, u, settings, method)
	var st Status
	if res != nil {
		st.Iterations = res.Stats.MajorIterations
		st.Cost = res.F
		st.Reason = res.Status.String()
		u = res.X
	}
	if obj.err != nil {
		return u, st, obj.err
	}
	if err != nil {
		if ce := budget(ctx, deadline); ce != nil {
			return u, st, ce
		}
		if res == nil || math.IsNaN(res.F) || math.IsInf(res.F, 0) {
			return u, st, fmt.Errorf("%w: %v", ErrNotConverged, err)
		}
		// A failed line search is a stall, as in levenbergMarquardt.
		st.Converged, st.Reason = true, "no further reduction: "+err.Error()
		return u, st, nil
	}
	switch res.Status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit, optimize.GradientEvaluationLimit:
		return u, st, ErrNotConverged
	case optimize.RuntimeLimit:
		return u, st, ErrTimeLimit
	}
	st.Converged = true

	return u, st, nil
}
