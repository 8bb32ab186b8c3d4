// SPDX-License-Identifier: MIT

package fit

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// objective evaluates the residual pipeline in scaled variables.
type objective struct {
	f       *Fitter
	scale   []float64
	log     *slog.Logger
	evals   int
	err     error // first fatal pipeline error
	warned  bool
	central bool
}

func newObjective(f *Fitter, x0 []float64, log *slog.Logger) *objective {
	scale := make([]float64, len(x0))
	for j, v := range x0 {
		scale[j] = math.Abs(v)
		if scale[j] == 0 || math.IsInf(scale[j], 0) || math.IsNaN(scale[j]) {
			scale[j] = 1
		}
	}
	return &objective{f: f, scale: scale, log: log, central: f.opts.jacobian == CentralDifference}
}

// toScaled returns u = x / scale.
func (o *objective) toScaled(x []float64) []float64 {
	u := make([]float64, len(x))
	for j := range x {
		u[j] = x[j] / o.scale[j]
	}

	return u
}

// toX returns x = u · scale.
func (o *objective) toX(u []float64) []float64 {
	x := make([]float64, len(u))
	for j := range u {
		x[j] = u[j] * o.scale[j]
	}

	return x
}

// residuals writes r(u) into dst (len = NumResiduals). Fatal pipeline
// errors are recorded once and turn dst into NaN so every optimizer rejects
// the point.
func (o *objective) residuals(dst, u []float64) {
	o.evals++
	ev, err := o.f.Residuals(o.toX(u), dst[:0])
	if err != nil {
		if o.err == nil {
			o.err = err
		}
		for i := range dst {
			dst[i] = math.NaN()
		}
		return
	}
	if ev.Penalized > 0 && !o.warned {
		o.warned = true
		o.log.Warn("speciation failed at trial point; penalising", "points", ev.Penalized)
	}
}

// cost returns ½‖r(u)‖².
func (o *objective) cost(u []float64) float64 {
	r := make([]float64, o.f.comb.Len())
	o.residuals(r, u)

	return halfSquaredNorm(r)
}

// jacobian returns dr/du at u. r0 must be r(u); it is reused by the
// forward formula.
func (o *objective) jacobian(u, r0 []float64) *mat.Dense {
	J := mat.NewDense(len(r0), len(u), nil)
	settings := &fd.JacobianSettings{Formula: fd.Forward, OriginValue: r0}
	if o.central {
		settings = &fd.JacobianSettings{Formula: fd.Central}
	}
	fd.Jacobian(J, o.residuals, u, settings)

	return J
}

// gradient writes Jᵀ r into grad.
func (o *objective) gradient(grad, u []float64) {
	r := make([]float64, o.f.comb.Len())
	o.residuals(r, u)
	J := o.jacobian(u, r)
	g := mat.NewVecDense(len(grad), grad)
	g.MulVec(J.T(), mat.NewVecDense(len(r), r))
}
