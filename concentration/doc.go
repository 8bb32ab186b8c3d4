// SPDX-License-Identifier: MIT

// Package concentration computes the total (analytical) concentration of
// every free component at every titration point.
//
// Three models share the Model interface:
//   - Direct:  a fully known points × free matrix; Run returns a copy.
//   - Table:   a points × free table with unknown cells, fitted either one
//     variable per cell or one per species column ("linked").
//   - FromVolumes: stock concentrations (free × stocks, possibly unknown)
//     and cumulative addition volumes (points × stocks). Run fills the stock
//     table from the variables, computes moles = volumes · stockᵀ and divides
//     each point by its total delivered volume.
//
// In linked mode every row of the stock table that holds at least one
// unknown cell gets a single shared variable named "[H]". In unlinked mode
// each unknown cell is its own variable, named "[H] in Stock 1", and
// variables follow row-major cell order.
package concentration
