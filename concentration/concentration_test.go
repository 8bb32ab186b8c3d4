// SPDX-License-Identifier: MIT
package concentration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/concentration"
	"github.com/katalvlaran/titration/param"
)

var blank = param.Unknown("", 0)

func TestDirect(t *testing.T) {
	totals := mat.NewDense(2, 2, []float64{1e-4, 0, 1e-4, 2e-4})
	d, err := concentration.NewDirect(totals)
	require.NoError(t, err)
	assert.Empty(t, d.VariableNames())
	assert.Equal(t, 2, d.NumPoints())
	assert.Equal(t, 2, d.NumSpecies())

	a, err := d.Run(nil)
	require.NoError(t, err)
	b, err := d.Run(nil)
	require.NoError(t, err)
	assert.True(t, mat.Equal(a, b))
	a.Set(0, 0, 1)
	assert.Equal(t, 1e-4, totals.At(0, 0))

	_, err = d.Run([]float64{1})
	assert.ErrorIs(t, err, param.ErrCountMismatch)

	_, err = concentration.NewDirect(mat.NewDense(1, 1, []float64{-1}))
	assert.ErrorIs(t, err, concentration.ErrNegative)
	_, err = concentration.NewDirect(nil)
	assert.ErrorIs(t, err, concentration.ErrBadShape)
}

func TestLinkedUnlinkedCounts(t *testing.T) {
	t.Parallel()

	// Blanks in rows 0 and 2 of a three-stock table.
	stock := [][]param.Value{
		{blank, param.Known(0), blank},
		{param.Known(1e-3), param.Known(0), param.Known(0)},
		{param.Known(0), blank, param.Known(0)},
	}
	volumes := mat.NewDense(2, 3, []float64{1e-3, 0, 0, 1e-3, 1e-4, 1e-4})
	free := []string{"H", "G", "X"}

	linked, err := concentration.NewFromVolumes(stock, volumes, free, nil, true)
	require.NoError(t, err)
	assert.True(t, linked.Linked())
	assert.Equal(t, []string{"[H]", "[X]"}, linked.VariableNames())
	assert.Equal(t, []float64{concentration.DefaultConcGuess, concentration.DefaultConcGuess},
		linked.VariableInitialGuesses())

	unlinked, err := concentration.NewFromVolumes(stock, volumes, free, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"[H] in Stock 1", "[H] in Stock 3", "[X] in Stock 2"}, unlinked.VariableNames())

	s, err := linked.Stock([]float64{5, 7})
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 0, 5}, s.RawRowView(0))
	assert.Equal(t, []float64{0, 7, 0}, s.RawRowView(2))

	s, err = unlinked.Stock([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2}, s.RawRowView(0))
	assert.Equal(t, []float64{0, 3, 0}, s.RawRowView(2))
}

func TestFromVolumesArithmetic(t *testing.T) {
	t.Parallel()

	stock := [][]param.Value{
		{param.Known(1e-3), param.Known(0)},
		{param.Known(0), param.Unknown("G stock", 2e-2)},
	}
	volumes := mat.NewDense(2, 2, []float64{
		0.5e-3, 0,
		0.5e-3, 0.1e-3,
	})
	m, err := concentration.NewFromVolumes(stock, volumes, []string{"H", "G"}, []string{"host", "guest"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"G stock"}, m.VariableNames())
	assert.Equal(t, []float64{2e-2}, m.VariableInitialGuesses())

	totals, err := m.Run([]float64{1e-2})
	require.NoError(t, err)
	assert.InDelta(t, 1e-3, totals.At(0, 0), 1e-15)
	assert.Equal(t, 0.0, totals.At(0, 1))
	assert.InEpsilon(t, 0.5e-6/0.6e-3, totals.At(1, 0), 1e-12)
	assert.InEpsilon(t, 1e-6/0.6e-3, totals.At(1, 1), 1e-12)

	again, err := m.Run([]float64{1e-2})
	require.NoError(t, err)
	assert.True(t, mat.Equal(totals, again))
}

func TestFromVolumesErrors(t *testing.T) {
	t.Parallel()

	stock := [][]param.Value{{param.Known(1)}, {blank}}
	free := []string{"H", "G"}
	tests := []struct {
		name    string
		stock   [][]param.Value
		volumes *mat.Dense
		free    []string
		wantErr error
	}{
		{"zero volume", stock, mat.NewDense(2, 1, []float64{1, 0}), free, concentration.ErrZeroVolume},
		{"negative volume", stock, mat.NewDense(1, 1, []float64{-1}), free, concentration.ErrNegative},
		{"columns", stock, mat.NewDense(1, 2, []float64{1, 1}), free, concentration.ErrBadShape},
		{"species", stock, mat.NewDense(1, 1, []float64{1}), []string{"H"}, concentration.ErrBadShape},
		{"negative stock", [][]param.Value{{param.Known(-1)}, {blank}}, mat.NewDense(1, 1, []float64{1}), free,
			concentration.ErrNegative},
		{"ragged", [][]param.Value{{param.Known(1)}, {}}, mat.NewDense(1, 1, []float64{1}), free,
			concentration.ErrBadShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := concentration.NewFromVolumes(tc.stock, tc.volumes, tc.free, nil, false)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestTable(t *testing.T) {
	cells := [][]param.Value{
		{param.Known(1e-4), blank},
		{param.Known(1e-4), param.Known(5e-5)},
		{param.Known(1e-4), param.Unknown("", 3e-4)},
	}
	linked, err := concentration.NewTable(cells, []string{"H", "G"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"[G]"}, linked.VariableNames())

	unlinked, err := concentration.NewTable(cells, []string{"H", "G"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"[G] at point 1", "[G] at point 3"}, unlinked.VariableNames())
	assert.Equal(t, []float64{concentration.DefaultConcGuess, 3e-4}, unlinked.VariableInitialGuesses())

	out, err := linked.Run([]float64{2e-4})
	require.NoError(t, err)
	assert.Equal(t, []float64{2e-4, 5e-5, 2e-4}, mat.Col(nil, 1, out))
	assert.Equal(t, 3, linked.NumPoints())

	_, err = concentration.NewTable(cells, []string{"H"}, true)
	assert.ErrorIs(t, err, concentration.ErrBadShape)
}
