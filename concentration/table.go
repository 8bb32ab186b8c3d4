// SPDX-License-Identifier: MIT

package concentration

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// Table is a points × free matrix of totals with some unknown cells.
// Linked tables share one variable per species column.
type Table struct {
	cells  *cellMap
	points int
	free   int
}

// NewTable builds a partially known totals matrix.
// Unknown cells are named "[H]" (linked) or "[H] at point 3" (unlinked,
// 1-based point index).
//
// Errors: ErrBadShape, ErrNegative, ErrNotFinite.
func NewTable(cells [][]param.Value, freeNames []string, linked bool) (*Table, error) {
	rows, cols, err := matrix.ValidateTable(cells, len(freeNames))
	if err != nil {
		return nil, concentrationErrorf("NewTable", mapMatrixErr(err))
	}
	cm, err := buildCellMap(cells, linked,
		func(_, j int) int { return j },
		func(i, j int, linked bool) string {
			if linked {
				return "[" + freeNames[j] + "]"
			}
			return fmt.Sprintf("[%s] at point %d", freeNames[j], i+1)
		})
	if err != nil {
		return nil, concentrationErrorf("NewTable", err)
	}

	return &Table{cells: cm, points: rows, free: cols}, nil
}

// VariableNames implements param.Model.
func (t *Table) VariableNames() []string { return append([]string(nil), t.cells.names...) }

// VariableInitialGuesses implements param.Model.
func (t *Table) VariableInitialGuesses() []float64 {
	return append([]float64(nil), t.cells.guesses...)
}

// NumPoints implements Model.
func (t *Table) NumPoints() int { return t.points }

// NumSpecies implements Model.
func (t *Table) NumSpecies() int { return t.free }

// Run implements Model.
func (t *Table) Run(vars []float64) (*mat.Dense, error) {
	if err := param.CheckCount(vars, len(t.cells.names)); err != nil {
		return nil, concentrationErrorf("Table.Run", err)
	}
	out := mat.NewDense(t.points, t.free, nil)
	t.cells.fill(vars, out.Set)

	return out, nil
}
