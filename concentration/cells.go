// SPDX-License-Identifier: MIT

package concentration

import "github.com/katalvlaran/titration/param"

// cellMap assigns variables to the unknown cells of a table of Values.
//
// For linked tables every group (a row or a column, chosen by the caller)
// holding at least one unknown shares one variable; otherwise each unknown
// cell owns one. slot[i][j] is the variable index of cell (i,j), or -1.
type cellMap struct {
	known   [][]float64
	slot    [][]int
	names   []string
	guesses []float64
}

// buildCellMap validates the known cells and assigns variable slots.
// groupOf maps a cell to its linked group; name builds the default variable
// name of the cell that opens a new variable.
func buildCellMap(cells [][]param.Value, linked bool,
	groupOf func(i, j int) int,
	name func(i, j int, linked bool) string,
) (*cellMap, error) {
	m := &cellMap{
		known: make([][]float64, len(cells)),
		slot:  make([][]int, len(cells)),
	}
	groupSlot := make(map[int]int)
	for i, row := range cells {
		m.known[i] = make([]float64, len(row))
		m.slot[i] = make([]int, len(row))
		for j, v := range row {
			m.slot[i][j] = -1
			if v.IsKnown() {
				if err := checkKnown(v.Value()); err != nil {
					return nil, err
				}
				m.known[i][j] = v.Value()
				continue
			}
			if !linked {
				m.slot[i][j] = m.add(v, name(i, j, false))
				continue
			}
			g := groupOf(i, j)
			s, ok := groupSlot[g]
			if !ok {
				s = m.add(v, name(i, j, true))
				groupSlot[g] = s
			}
			m.slot[i][j] = s
		}
	}

	return m, nil
}

func (m *cellMap) add(v param.Value, fallback string) int {
	n := v.Name()
	if n == "" {
		n = fallback
	}
	m.names = append(m.names, n)
	m.guesses = append(m.guesses, guessOf(v))

	return len(m.names) - 1
}

// fill writes every cell, known or taken from vars, through set.
func (m *cellMap) fill(vars []float64, set func(i, j int, v float64)) {
	for i, row := range m.slot {
		for j, s := range row {
			if s < 0 {
				set(i, j, m.known[i][j])
			} else {
				set(i, j, vars[s])
			}
		}
	}
}
