// SPDX-License-Identifier: MIT
package fit_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/concentration"
	"github.com/katalvlaran/titration/contributors"
	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/fit"
	"github.com/katalvlaran/titration/param"
	"github.com/katalvlaran/titration/synth"
)

var species = []string{"H", "G", "HG"}

// scenario is the 1:1 host-guest titration: K = 1000, host 1e-4 M,
// guest 0 → 2e-4 M over ten points, signal from free host and complex.
type scenario struct {
	st     *equilibrium.Stoichiometry
	totals *mat.Dense
	data   *synth.Data
}

var trueCoefficients = mat.NewDense(2, 2, []float64{
	1000, 500,
	5000, 9000,
})

func newScenario(t testing.TB, noise float64) scenario {
	t.Helper()
	st, err := equilibrium.NewStoichiometry([]string{"H", "G"}, []string{"HG"}, [][]int{{1, 1}})
	require.NoError(t, err)
	totals := synth.HostGuestTotals(10, 1e-4, 2e-4)
	data, err := synth.Simulate(synth.Experiment{
		Stoichiometry: st,
		LogK:          []float64{3},
		Totals:        totals,
		Contributors:  []int{0, 2},
		Coefficients:  trueCoefficients,
		Noise:         noise,
		Seed:          20240601,
	})
	require.NoError(t, err)

	return scenario{st: st, totals: totals, data: data}
}

func knownCoefficients(t testing.TB) contributors.Model {
	t.Helper()
	coef := make([][]param.Value, 2)
	for k := range coef {
		coef[k] = []param.Value{param.Known(trueCoefficients.At(k, 0)), param.Known(trueCoefficients.At(k, 1))}
	}
	m, err := contributors.NewLinear(species, []int{0, 2}, coef)
	require.NoError(t, err)

	return m
}

func unknownCoefficients(t testing.TB, opts ...contributors.Option) contributors.Model {
	t.Helper()
	coef := [][]param.Value{
		{param.Unknown("", 800), param.Unknown("", 800)},
		{param.Unknown("", 4000), param.Unknown("", 4000)},
	}
	m, err := contributors.NewLinear(species, []int{0, 2}, coef, opts...)
	require.NoError(t, err)

	return m
}

func (s scenario) titration(t testing.TB, eq equilibrium.Model, model contributors.Model) fit.Titration {
	t.Helper()
	totals, err := concentration.NewDirect(s.totals)
	require.NoError(t, err)

	return fit.Titration{
		Stoichiometry: s.st,
		Equilibrium:   eq,
		Totals:        totals,
		Datasets:      []fit.Dataset{{Name: "uv", Observed: s.data.Noisy, Model: model}},
	}
}

func unknownK(t testing.TB, guess float64) equilibrium.Model {
	t.Helper()
	eq, err := equilibrium.NewPartial([]param.Value{param.Unknown("K(HG)", guess)})
	require.NoError(t, err)

	return eq
}

func TestFitRecoversOneToOne(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 5e-4)
	f, err := fit.New(s.titration(t, unknownK(t, 100), knownCoefficients(t)))
	require.NoError(t, err)
	assert.Equal(t, []string{"K(HG)"}, f.Names())

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Status.Converged)
	assert.InEpsilon(t, 1000, res.K[0], 0.05, "K = %g", res.K[0])
	assert.Less(t, res.Status.ResidualNorm, 0.05)
	assert.Less(t, res.Signals[0].RMS, 2e-3)
	assert.NotEmpty(t, res.RunID)
	assert.Same(t, res, f.Last())

	require.Len(t, res.StdErrors, 1)
	assert.False(t, math.IsNaN(res.StdErrors[0]))
	assert.Greater(t, res.StdErrors[0], 0.0)
	assert.Less(t, res.StdErrors[0], 0.1, "log10 K uncertainty")
}

func TestFitProjectedCoefficients(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 0)
	f, err := fit.New(s.titration(t, unknownK(t, 100), unknownCoefficients(t)))
	require.NoError(t, err)
	assert.Len(t, f.Names(), 1, "projected coefficients are not optimizer variables")

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.InEpsilon(t, 1000, res.K[0], 1e-4)
	got := res.Signals[0].Coefficients
	for k := 0; k < 2; k++ {
		for ch := 0; ch < 2; ch++ {
			assert.InEpsilon(t, trueCoefficients.At(k, ch), got.At(k, ch), 1e-3, "coefficient (%d,%d)", k, ch)
		}
	}
}

func TestFitNonlinearCoefficients(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 0)
	f, err := fit.New(s.titration(t, unknownK(t, 300),
		unknownCoefficients(t, contributors.WithMode(contributors.Nonlinear))))
	require.NoError(t, err)
	assert.Equal(t, []string{"K(HG)", "H @ 1", "H @ 2", "HG @ 1", "HG @ 2"}, f.Names())

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.InEpsilon(t, 1000, res.K[0], 1e-3)
	assert.InEpsilon(t, 9000, res.Params[4], 1e-3)
}

func TestFitAlternativeMethods(t *testing.T) {
	t.Parallel()

	for _, m := range []fit.Method{fit.MethodNelderMead, fit.MethodLBFGS} {
		t.Run(m.String(), func(t *testing.T) {
			t.Parallel()
			s := newScenario(t, 5e-4)
			f, err := fit.New(s.titration(t, unknownK(t, 300), knownCoefficients(t)), fit.WithMethod(m))
			require.NoError(t, err)
			res, err := f.Fit(context.Background())
			require.NoError(t, err)
			assert.InEpsilon(t, 1000, res.K[0], 0.05)
		})
	}
}

// hostShifts is an NMR observable: the host resonance averaged over free
// and bound host, 7.00 ppm free and 8.49 ppm in HG.
func hostShifts(species mat.Matrix) *mat.Dense {
	points, _ := species.Dims()
	out := mat.NewDense(points, 1, nil)
	for p := 0; p < points; p++ {
		h, hg := species.At(p, 0), species.At(p, 2)
		out.Set(p, 0, (7.00*h+8.49*hg)/(h+hg))
	}

	return out
}

func TestFitJointDatasets(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 5e-4)
	nmr, err := contributors.NewLinear(species, []int{0, 2},
		[][]param.Value{{param.Unknown("", 7.5)}, {param.Unknown("", 7.5)}},
		contributors.WithFractionOf([]int{1, 0, 1}))
	require.NoError(t, err)

	tt := s.titration(t, unknownK(t, 100), unknownCoefficients(t))
	tt.Datasets = append(tt.Datasets, fit.Dataset{Name: "nmr", Observed: hostShifts(s.data.Species), Model: nmr})
	f, err := fit.New(tt)
	require.NoError(t, err)
	assert.Equal(t, []string{"K(HG)"}, f.Names())
	assert.Equal(t, 20+10-1-4-2, f.DegreesOfFreedom_TestOnly())

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Status.Converged)
	assert.InEpsilon(t, 1000, res.K[0], 0.05, "K = %g", res.K[0])
	require.Len(t, res.Signals, 2)
	assert.Equal(t, "nmr", res.Signals[1].Name)
	shifts := res.Signals[1].Coefficients
	assert.InDelta(t, 7.00, shifts.At(0, 0), 0.02)
	assert.InDelta(t, 8.49, shifts.At(1, 0), 0.02)
	assert.Less(t, res.Signals[1].RMS, 5e-3)
}

func TestFitUnknownStockConcentration(t *testing.T) {
	t.Parallel()

	// 500 µL of host stock, then up to 60 µL of guest stock that carries the
	// host at the same concentration: host stays at 1e-4 M, guest reaches
	// 2e-3 · 60/560.
	added := synth.LinearSeries(0, 60, 10)
	volumes := mat.NewDense(len(added), 2, nil)
	for p, v := range added {
		volumes.Set(p, 0, 500)
		volumes.Set(p, 1, v)
	}
	stock := func(guest param.Value) [][]param.Value {
		return [][]param.Value{
			{param.Known(1e-4), param.Known(1e-4)},
			{param.Known(0), guest},
		}
	}
	names := []string{"H", "G"}

	truth, err := concentration.NewFromVolumes(stock(param.Known(2e-3)), volumes, names, nil, true)
	require.NoError(t, err)
	totals, err := truth.Run(nil)
	require.NoError(t, err)
	st, err := equilibrium.NewStoichiometry(names, []string{"HG"}, [][]int{{1, 1}})
	require.NoError(t, err)
	data, err := synth.Simulate(synth.Experiment{
		Stoichiometry: st,
		LogK:          []float64{3},
		Totals:        totals,
		Contributors:  []int{0, 2},
		Coefficients:  trueCoefficients,
	})
	require.NoError(t, err)

	fromVolumes, err := concentration.NewFromVolumes(stock(param.Unknown("", 1e-3)), volumes, names, nil, true)
	require.NoError(t, err)
	f, err := fit.New(fit.Titration{
		Stoichiometry: st,
		Equilibrium:   unknownK(t, 100),
		Totals:        fromVolumes,
		Datasets:      []fit.Dataset{{Name: "uv", Observed: data.Noisy, Model: knownCoefficients(t)}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"K(HG)", "[G]"}, f.Names())

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Status.Converged)
	assert.InEpsilon(t, 1000, res.K[0], 1e-2, "K = %g", res.K[0])
	assert.InEpsilon(t, 2e-3, res.Params[1], 1e-2, "[G] = %g", res.Params[1])
	assert.InEpsilon(t, 2e-3*60/560, res.Totals.At(9, 1), 1e-2)
	assert.InEpsilon(t, 1e-4, res.Totals.At(9, 0), 1e-9)
}

func TestDegreesOfFreedom(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 0)
	tests := []struct {
		name  string
		model contributors.Model
		want  int
	}{
		{"known coefficients", knownCoefficients(t), 20 - 1},
		{"projected", unknownCoefficients(t), 20 - 1 - 4},
		{"nonlinear", unknownCoefficients(t, contributors.WithMode(contributors.Nonlinear)), 20 - 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f, err := fit.New(s.titration(t, unknownK(t, 100), tc.model))
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.DegreesOfFreedom_TestOnly())
		})
	}
}

func TestFitIllPosedProduct(t *testing.T) {
	t.Parallel()

	// K(HG) = m1 · m2 with both micro-constants unknown: only the product
	// is determined by the data.
	eq, err := equilibrium.NewCustom(
		[]param.Value{param.Unknown("m1", 30), param.Unknown("m2", 30)},
		[]float64{1},
		[][]int{{1}, {1}},
	)
	require.NoError(t, err)
	s := newScenario(t, 5e-4)
	f, err := fit.New(s.titration(t, eq, knownCoefficients(t)))
	require.NoError(t, err)

	res, err := f.Fit(context.Background())
	require.ErrorIs(t, err, fit.ErrIllPosed)
	assert.Nil(t, res)
	var fe *fit.Error
	require.True(t, errors.As(err, &fe))
	assert.False(t, fe.Status.Converged)
	assert.Nil(t, f.Last())
}

func TestFitZeroUnknowns(t *testing.T) {
	s := newScenario(t, 0)
	eq, err := equilibrium.NewPartial([]param.Value{param.Known(1000)})
	require.NoError(t, err)
	f, err := fit.New(s.titration(t, eq, knownCoefficients(t)))
	require.NoError(t, err)

	res, err := f.Fit(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Status.Converged)
	assert.Zero(t, res.Status.Iterations)
	assert.Empty(t, res.Params)
	assert.Less(t, res.Status.ResidualNorm, 1e-9)
}

func TestFitBudgets(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 5e-4)
	tests := []struct {
		name    string
		ctx     func() context.Context
		opts    []fit.Option
		wantErr error
	}{
		{
			name: "cancelled",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantErr: context.Canceled,
		},
		{
			name:    "iterations",
			ctx:     context.Background,
			opts:    []fit.Option{fit.WithMaxIterations(1), fit.WithTolerances(0, 0, 0)},
			wantErr: fit.ErrNotConverged,
		},
		{
			name:    "time",
			ctx:     context.Background,
			opts:    []fit.Option{fit.WithTimeLimit(time.Nanosecond)},
			wantErr: fit.ErrTimeLimit,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f, err := fit.New(s.titration(t, unknownK(t, 100), knownCoefficients(t)), tc.opts...)
			require.NoError(t, err)
			res, err := f.Fit(tc.ctx())
			require.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, res)
			var fe *fit.Error
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestRegistryOrderAndPenalty(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 0)
	stock := [][]param.Value{
		{param.Known(1e-3), param.Known(0)},
		{param.Known(0), param.Unknown("", 0)},
	}
	volumes := mat.NewDense(10, 2, nil)
	for p, v := range synth.LinearSeries(0, 0.2, 10) {
		volumes.Set(p, 0, 1)
		volumes.Set(p, 1, v)
	}
	totals, err := concentration.NewFromVolumes(stock, volumes, []string{"H", "G"}, nil, true)
	require.NoError(t, err)
	tr := fit.Titration{
		Stoichiometry: s.st,
		Equilibrium:   unknownK(t, 100),
		Totals:        totals,
		Datasets: []fit.Dataset{{
			Name:     "uv",
			Observed: s.data.Noisy,
			Model:    unknownCoefficients(t, contributors.WithMode(contributors.Nonlinear)),
		}},
	}
	f, err := fit.New(tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"K(HG)", "[G]", "H @ 1", "H @ 2", "HG @ 1", "HG @ 2"}, f.Names())
	blocks := f.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, param.Range{Start: 1, End: 2}, blocks[1].Range)
	assert.Equal(t, []float64{2, concentration.DefaultConcGuess, 800, 800, 4000, 4000}, roundGuesses(f.InitialGuesses()))

	// A negative stock concentration makes every point with guest infeasible.
	x := f.InitialGuesses()
	x[1] = -1e-3
	ev, err := f.Residuals(x, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, ev.Penalized)
	assert.Equal(t, fit.DefaultPenalty, ev.Residuals[len(ev.Residuals)-1])
	assert.NotEqual(t, fit.DefaultPenalty, ev.Residuals[0])

	_, err = f.Residuals(x[:2], nil)
	assert.ErrorIs(t, err, param.ErrCountMismatch)

	a, err := f.Residuals(f.InitialGuesses(), nil)
	require.NoError(t, err)
	b, err := f.Residuals(f.InitialGuesses(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Residuals, b.Residuals, "evaluation is deterministic")
}

func roundGuesses(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = math.Round(v*1e12) / 1e12
	}

	return out
}

func TestNewRejectsInconsistentTitration(t *testing.T) {
	t.Parallel()

	s := newScenario(t, 0)
	good := s.titration(t, unknownK(t, 100), knownCoefficients(t))

	twoK, err := equilibrium.NewAll([]string{"K1", "K2"})
	require.NoError(t, err)
	fourSpecies, err := contributors.NewLinear([]string{"H", "G", "HG", "HG2"}, []int{0, 2},
		[][]param.Value{{param.Known(1), param.Known(2)}, {param.Known(3), param.Known(4)}})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(tr *fit.Titration)
	}{
		{"no datasets", func(tr *fit.Titration) { tr.Datasets = nil }},
		{"nil stoichiometry", func(tr *fit.Titration) { tr.Stoichiometry = nil }},
		{"constants", func(tr *fit.Titration) { tr.Equilibrium = twoK }},
		{"observed shape", func(tr *fit.Titration) {
			tr.Datasets = []fit.Dataset{{Name: "uv", Observed: mat.NewDense(3, 2, nil), Model: knownCoefficients(t)}}
		}},
		{"model species", func(tr *fit.Titration) {
			tr.Datasets = []fit.Dataset{{Name: "uv", Observed: s.data.Noisy, Model: fourSpecies}}
		}},
		{"duplicate names", func(tr *fit.Titration) {
			tr.Datasets = append(tr.Datasets, tr.Datasets[0])
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tr := good
			tr.Datasets = append([]fit.Dataset(nil), good.Datasets...)
			tc.mutate(&tr)
			_, err := fit.New(tr)
			assert.ErrorIs(t, err, fit.ErrBadTitration)
		})
	}
}

func TestOptionsPanic(t *testing.T) {
	assert.Panics(t, func() { fit.WithMaxIterations(0) })
	assert.Panics(t, func() { fit.WithTimeLimit(-time.Second) })
	assert.Panics(t, func() { fit.WithTolerances(-1, 0, 0) })
	assert.Panics(t, func() { fit.WithPenalty(math.Inf(1)) })
	assert.Panics(t, func() { fit.WithIllPosedRcond(1) })
	assert.Panics(t, func() { fit.WithLogger(nil) })
	assert.Panics(t, func() { fit.WithMethod(fit.Method(9)) })

	m, err := fit.ParseMethod("nelder-mead")
	require.NoError(t, err)
	assert.Equal(t, fit.MethodNelderMead, m)
	_, err = fit.ParseMethod("simplex")
	assert.ErrorIs(t, err, fit.ErrBadTitration)
}
