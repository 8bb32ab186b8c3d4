// SPDX-License-Identifier: MIT

package concentration

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// FromVolumes derives totals from stock concentrations and addition volumes.
type FromVolumes struct {
	stock    *cellMap
	volumes  *mat.Dense // points × stocks
	totalVol []float64  // per point
	free     int
	stocks   int
	linked   bool
}

// NewFromVolumes validates the stock table (free × stocks) and the
// cumulative addition volumes (points × stocks). stockNames label the
// columns in unlinked variable names and may be nil ("Stock 1", ...).
//
// Errors: ErrBadShape, ErrNegative, ErrNotFinite, ErrZeroVolume.
func NewFromVolumes(stock [][]param.Value, volumes mat.Matrix, freeNames, stockNames []string, linked bool) (*FromVolumes, error) {
	free, stocks, err := matrix.ValidateTable(stock, -1)
	if err != nil {
		return nil, concentrationErrorf("NewFromVolumes: stock", mapMatrixErr(err))
	}
	if free != len(freeNames) {
		return nil, concentrationErrorf(fmt.Sprintf("NewFromVolumes: %d stock rows for %d species", free, len(freeNames)),
			ErrBadShape)
	}
	if stockNames == nil {
		stockNames = make([]string, stocks)
		for j := range stockNames {
			stockNames[j] = fmt.Sprintf("Stock %d", j+1)
		}
	}
	if len(stockNames) != stocks {
		return nil, concentrationErrorf("NewFromVolumes: stock names", ErrBadShape)
	}
	if err = matrix.ValidateNotNil(volumes); err != nil {
		return nil, concentrationErrorf("NewFromVolumes: volumes", mapMatrixErr(err))
	}
	_, c := volumes.Dims()
	if c != stocks {
		return nil, concentrationErrorf(fmt.Sprintf("NewFromVolumes: %d volume columns for %d stocks", c, stocks),
			ErrBadShape)
	}
	if err = matrix.ValidateNonNegativeFinite(volumes); err != nil {
		return nil, concentrationErrorf("NewFromVolumes: volumes", mapMatrixErr(err))
	}
	totalVol := matrix.RowSums(volumes)
	for p, v := range totalVol {
		if v == 0 {
			return nil, concentrationErrorf(fmt.Sprintf("NewFromVolumes: point %d", p+1), ErrZeroVolume)
		}
	}

	cm, err := buildCellMap(stock, linked,
		func(i, _ int) int { return i },
		func(i, j int, linked bool) string {
			if linked {
				return "[" + freeNames[i] + "]"
			}
			return fmt.Sprintf("[%s] in %s", freeNames[i], stockNames[j])
		})
	if err != nil {
		return nil, concentrationErrorf("NewFromVolumes: stock", err)
	}

	return &FromVolumes{
		stock:    cm,
		volumes:  mat.DenseCopyOf(volumes),
		totalVol: totalVol,
		free:     free,
		stocks:   stocks,
		linked:   linked,
	}, nil
}

// VariableNames implements param.Model.
func (f *FromVolumes) VariableNames() []string { return append([]string(nil), f.stock.names...) }

// VariableInitialGuesses implements param.Model.
func (f *FromVolumes) VariableInitialGuesses() []float64 {
	return append([]float64(nil), f.stock.guesses...)
}

// NumPoints implements Model.
func (f *FromVolumes) NumPoints() int { return len(f.totalVol) }

// NumSpecies implements Model.
func (f *FromVolumes) NumSpecies() int { return f.free }

// Linked reports whether unknown cells share one variable per species.
func (f *FromVolumes) Linked() bool { return f.linked }

// Stock returns the stock table (free × stocks) with unknowns filled from vars.
func (f *FromVolumes) Stock(vars []float64) (*mat.Dense, error) {
	if err := param.CheckCount(vars, len(f.stock.names)); err != nil {
		return nil, concentrationErrorf("FromVolumes.Stock", err)
	}
	s := mat.NewDense(f.free, f.stocks, nil)
	f.stock.fill(vars, s.Set)

	return s, nil
}

// Run implements Model.
func (f *FromVolumes) Run(vars []float64) (*mat.Dense, error) {
	s, err := f.Stock(vars)
	if err != nil {
		return nil, concentrationErrorf("FromVolumes.Run", err)
	}
	var out mat.Dense
	out.Mul(f.volumes, s.T())
	for p, v := range f.totalVol {
		row := out.RawRowView(p)
		for i := range row {
			row[i] /= v
		}
	}

	return &out, nil
}
