// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/contributors"
	"github.com/katalvlaran/titration/param"
	"github.com/katalvlaran/titration/residual"
	"github.com/katalvlaran/titration/speciation"
)

// Registry owner labels.
const (
	ownerEquilibrium   = "equilibrium"
	ownerConcentration = "concentrations"
)

// Fitter owns the parameter registry and the residual pipeline of one
// titration.
type Fitter struct {
	t        Titration
	opts     Options
	reg      param.Registry
	eqRange  param.Range
	cRange   param.Range
	dsRanges []param.Range
	solver   *speciation.Solver
	comb     *residual.Combiner
	last     *Result
}

// New validates t and registers its unknowns.
// Errors: ErrBadTitration, speciation.ErrBadOptions, param registration errors.
func New(t Titration, opts ...Option) (*Fitter, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	f := &Fitter{t: t, opts: gatherOptions(opts...)}

	var err error
	if f.eqRange, err = f.reg.Register(ownerEquilibrium, t.Equilibrium); err != nil {
		return nil, fitErrorf("New", err)
	}
	if f.cRange, err = f.reg.Register(ownerConcentration, t.Totals); err != nil {
		return nil, fitErrorf("New", err)
	}
	observed := make([]mat.Matrix, len(t.Datasets))
	for d, ds := range t.Datasets {
		rg, err := f.reg.Register("dataset "+ds.Name, ds.Model)
		if err != nil {
			return nil, fitErrorf("New", err)
		}
		f.dsRanges = append(f.dsRanges, rg)
		observed[d] = ds.Observed
	}
	if f.solver, err = speciation.NewSolver(t.Stoichiometry, f.opts.speciation); err != nil {
		return nil, fitErrorf("New", err)
	}
	if f.comb, err = residual.NewCombiner(observed, f.opts.weighting); err != nil {
		return nil, fitErrorf("New", err)
	}

	return f, nil
}

// Names returns the unknowns in vector order.
func (f *Fitter) Names() []string { return f.reg.Names() }

// InitialGuesses returns the registered seeds in vector order.
func (f *Fitter) InitialGuesses() []float64 { return f.reg.InitialGuesses() }

// Blocks exposes the registry layout.
func (f *Fitter) Blocks() []param.Block { return f.reg.Blocks() }

// NumResiduals returns the length of the residual vector.
func (f *Fitter) NumResiduals() int { return f.comb.Len() }

// Last returns the most recent successful result, or nil.
func (f *Fitter) Last() *Result { return f.last }

// Evaluation is everything computed for one parameter vector.
type Evaluation struct {
	LogK       []float64
	Totals     *mat.Dense
	Speciation *speciation.Result
	Outputs    []*contributors.Output
	Residuals  []float64

	// Penalized counts the points whose speciation failed.
	Penalized int

	// Deficit is the largest projected rank deficit over all datasets.
	Deficit int
}

// Cost returns ½‖r‖².
func (e *Evaluation) Cost() float64 { return halfSquaredNorm(e.Residuals) }

// Residuals runs the full pipeline at x, writing the residuals into dst
// (reused when large enough).
//
// Errors: param.ErrCountMismatch and component configuration errors; both
// are fatal and never masked as penalties.
func (f *Fitter) Residuals(x, dst []float64) (*Evaluation, error) {
	if err := param.CheckCount(x, f.reg.Len()); err != nil {
		return nil, fitErrorf("Residuals", err)
	}
	ev := &Evaluation{}
	var err error
	if ev.LogK, err = f.t.Equilibrium.Run(f.eqRange.Slice(x)); err != nil {
		return nil, fitErrorf("Residuals: equilibrium", err)
	}
	if ev.Totals, err = f.t.Totals.Run(f.cRange.Slice(x)); err != nil {
		return nil, fitErrorf("Residuals: concentrations", err)
	}
	if ev.Speciation, err = f.solver.Solve(ev.LogK, ev.Totals); err != nil {
		return nil, fitErrorf("Residuals: speciation", err)
	}
	species := ev.Speciation.Species()

	predicted := make([]*mat.Dense, len(f.t.Datasets))
	ev.Outputs = make([]*contributors.Output, len(f.t.Datasets))
	for d, ds := range f.t.Datasets {
		out, err := ds.Model.Run(f.dsRanges[d].Slice(x), species, ds.Observed)
		if err != nil {
			return nil, fitErrorf(fmt.Sprintf("Residuals: dataset %q", ds.Name), err)
		}
		ev.Outputs[d] = out
		predicted[d] = out.Predicted
		ev.Deficit = max(ev.Deficit, out.Deficit)
	}

	invalid := make([]bool, len(ev.Speciation.Valid))
	for p, ok := range ev.Speciation.Valid {
		if !ok {
			invalid[p] = true
			ev.Penalized++
		}
	}
	if ev.Residuals, err = f.comb.Combine(dst, predicted, invalid, f.opts.penalty); err != nil {
		return nil, fitErrorf("Residuals", err)
	}

	return ev, nil
}

func halfSquaredNorm(r []float64) float64 {
	s := 0.0
	for _, v := range r {
		s += v * v
	}

	return s / 2
}
