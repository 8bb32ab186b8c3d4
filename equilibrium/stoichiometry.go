// SPDX-License-Identifier: MIT

package equilibrium

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/titration/matrix"
)

// Stoichiometry is the immutable formation table of a titration.
type Stoichiometry struct {
	free  []string
	bound []string
	rows  [][]int
}

// NewStoichiometry validates and copies the formation table.
//
// rows[b][i] is the exponent of free species i in complex b. Negative
// exponents are allowed (e.g. deprotonated complexes).
//
// Errors: ErrNoSpecies, ErrBadShape, ErrEmptyComplex, ErrDuplicateComplex.
// Complexity: O(B·F + B·log B).
func NewStoichiometry(free, bound []string, rows [][]int) (*Stoichiometry, error) {
	if len(free) == 0 || len(bound) == 0 {
		return nil, equilibriumErrorf("NewStoichiometry", ErrNoSpecies)
	}
	if len(rows) != len(bound) {
		return nil, equilibriumErrorf(fmt.Sprintf("NewStoichiometry: %d rows for %d complexes", len(rows), len(bound)),
			ErrBadShape)
	}
	if _, _, err := matrix.ValidateTable(rows, len(free)); err != nil {
		return nil, equilibriumErrorf("NewStoichiometry", fmt.Errorf("%w: %v", ErrBadShape, err))
	}

	s := &Stoichiometry{
		free:  append([]string(nil), free...),
		bound: append([]string(nil), bound...),
		rows:  make([][]int, len(rows)),
	}
	seen := make(map[string]int, len(rows))
	for b, row := range rows {
		key := rowKey(row)
		if key == "" {
			return nil, equilibriumErrorf("NewStoichiometry: "+bound[b], ErrEmptyComplex)
		}
		if prev, dup := seen[key]; dup {
			return nil, equilibriumErrorf(fmt.Sprintf("NewStoichiometry: %s and %s", bound[prev], bound[b]),
				ErrDuplicateComplex)
		}
		seen[key] = b
		s.rows[b] = append([]int(nil), row...)
	}

	return s, nil
}

// rowKey encodes a row for duplicate detection; all-zero rows map to "".
func rowKey(row []int) string {
	var sb strings.Builder
	zero := true
	for i, e := range row {
		if e != 0 {
			zero = false
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(e))
	}
	if zero {
		return ""
	}

	return sb.String()
}

// NumFree returns the number of free components.
func (s *Stoichiometry) NumFree() int { return len(s.free) }

// NumBound returns the number of complexes.
func (s *Stoichiometry) NumBound() int { return len(s.bound) }

// NumSpecies returns NumFree()+NumBound().
func (s *Stoichiometry) NumSpecies() int { return len(s.free) + len(s.bound) }

// FreeNames returns a copy of the free-species names.
func (s *Stoichiometry) FreeNames() []string { return append([]string(nil), s.free...) }

// BoundNames returns a copy of the complex names.
func (s *Stoichiometry) BoundNames() []string { return append([]string(nil), s.bound...) }

// Species returns free names followed by bound names.
func (s *Stoichiometry) Species() []string {
	out := make([]string, 0, s.NumSpecies())
	out = append(out, s.free...)

	return append(out, s.bound...)
}

// Coeff returns the exponent of free species i in complex b.
func (s *Stoichiometry) Coeff(b, i int) int { return s.rows[b][i] }
