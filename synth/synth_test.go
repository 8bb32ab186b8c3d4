// SPDX-License-Identifier: MIT
package synth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/synth"
)

func TestRandDeterminism(t *testing.T) {
	a, b := synth.NewRand(0), synth.NewRand(synth.DefaultSeed)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
	assert.NotEqual(t, synth.DeriveSeed(7, 1), synth.DeriveSeed(7, 2))
	assert.Equal(t, synth.DeriveSeed(7, 1), synth.DeriveSeed(7, 1))
}

func TestLinearSeries(t *testing.T) {
	assert.Nil(t, synth.LinearSeries(0, 1, 0))
	assert.Equal(t, []float64{3}, synth.LinearSeries(3, 9, 1))
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, synth.LinearSeries(0, 1, 5), 1e-15)
	assert.Equal(t, 2e-4, synth.LinearSeries(0, 2e-4, 10)[9])
}

func TestSimulate(t *testing.T) {
	t.Parallel()

	st, err := equilibrium.NewStoichiometry([]string{"H", "G"}, []string{"HG"}, [][]int{{1, 1}})
	require.NoError(t, err)
	e := synth.Experiment{
		Stoichiometry: st,
		LogK:          []float64{3},
		Totals:        synth.HostGuestTotals(10, 1e-4, 2e-4),
		Contributors:  []int{0, 2},
		Coefficients:  mat.NewDense(2, 1, []float64{1000, 5000}),
		Noise:         1e-3,
		Seed:          42,
	}
	d, err := synth.Simulate(e)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d.Clean.At(0, 0), 1e-12, "host only at the first point")
	assert.False(t, mat.Equal(d.Clean, d.Noisy))

	again, err := synth.Simulate(e)
	require.NoError(t, err)
	assert.True(t, mat.Equal(d.Noisy, again.Noisy))

	e.Contributors = []int{0}
	_, err = synth.Simulate(e)
	assert.ErrorIs(t, err, synth.ErrSimulation)
}

func TestSimulateChannelStreams(t *testing.T) {
	t.Parallel()

	st, err := equilibrium.NewStoichiometry([]string{"H", "G"}, []string{"HG"}, [][]int{{1, 1}})
	require.NoError(t, err)
	e := synth.Experiment{
		Stoichiometry: st,
		LogK:          []float64{3},
		Totals:        synth.HostGuestTotals(6, 1e-4, 2e-4),
		Contributors:  []int{0, 2},
		Coefficients:  mat.NewDense(2, 2, []float64{1000, 500, 5000, 9000}),
		Noise:         1e-3,
		Seed:          11,
	}
	both, err := synth.Simulate(e)
	require.NoError(t, err)

	e.Coefficients = mat.NewDense(2, 1, []float64{1000, 5000})
	first, err := synth.Simulate(e)
	require.NoError(t, err)

	for p := 0; p < 6; p++ {
		assert.Equal(t, first.Noisy.At(p, 0), both.Noisy.At(p, 0), "point %d", p)
	}
	noise0 := both.Noisy.At(1, 0) - both.Clean.At(1, 0)
	noise1 := both.Noisy.At(1, 1) - both.Clean.At(1, 1)
	assert.NotEqual(t, noise0, noise1)
}
