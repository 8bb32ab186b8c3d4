// SPDX-License-Identifier: MIT

package equilibrium

import (
	"fmt"
	"math"

	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// Custom expresses every global constant as a statistical factor times a
// product of micro-constants raised to integer powers:
//
//	log10 K_j = log10 s_j + Σ_i E[i][j] · log10 m_i
//
// Terms with E[i][j] == 0 are skipped, so a micro-constant that does not
// take part in K_j never contributes 0·(-Inf). A zero factor gives K_j = 0.
type Custom struct {
	logFactor []float64 // log10 s_j, -Inf for s_j == 0
	exponents [][]int   // numMicro × numGlobal
	logMicro  []float64 // known micro-constants in log10; guesses for unknown ones
	unknown   []int     // micro indices that are fitted, ascending
	names     []string
}

// NewCustom validates the relation at construction.
//
// Errors:
//   - ErrNoSpecies: no micro-constants or no factors.
//   - ErrBadShape: exponents is not len(micro) × len(factors).
//   - ErrBadFactor: a factor is negative or non-finite.
//   - ErrBadConstant: a known micro-constant is negative or non-finite, or is
//     zero while raised to a nonzero power.
func NewCustom(micro []param.Value, factors []float64, exponents [][]int) (*Custom, error) {
	if len(micro) == 0 || len(factors) == 0 {
		return nil, equilibriumErrorf("NewCustom", ErrNoSpecies)
	}
	if len(exponents) != len(micro) {
		return nil, equilibriumErrorf(fmt.Sprintf("NewCustom: %d exponent rows for %d micro-constants",
			len(exponents), len(micro)), ErrBadShape)
	}
	if _, _, err := matrix.ValidateTable(exponents, len(factors)); err != nil {
		return nil, equilibriumErrorf("NewCustom", fmt.Errorf("%w: %v", ErrBadShape, err))
	}

	c := &Custom{
		logFactor: make([]float64, len(factors)),
		exponents: make([][]int, len(micro)),
		logMicro:  make([]float64, len(micro)),
	}
	for j, s := range factors {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return nil, equilibriumErrorf(fmt.Sprintf("NewCustom: factor %d", j), ErrBadFactor)
		}
		c.logFactor[j] = math.Log10(s)
	}
	for i, m := range micro {
		c.exponents[i] = append([]int(nil), exponents[i]...)
		if !m.IsKnown() {
			name := m.Name()
			if name == "" {
				name = fmt.Sprintf("m%d", i+1)
			}
			c.unknown = append(c.unknown, i)
			c.names = append(c.names, name)
			c.logMicro[i] = logGuess(m.Guess())
			continue
		}
		lm, err := logOf(m.Value())
		if err == nil && math.IsInf(lm, -1) && participates(exponents[i]) {
			err = ErrBadConstant
		}
		if err != nil {
			return nil, equilibriumErrorf(fmt.Sprintf("NewCustom: micro-constant %d", i), err)
		}
		c.logMicro[i] = lm
	}

	return c, nil
}

func participates(row []int) bool {
	for _, e := range row {
		if e != 0 {
			return true
		}
	}

	return false
}

// VariableNames implements param.Model.
func (c *Custom) VariableNames() []string { return append([]string(nil), c.names...) }

// VariableInitialGuesses implements param.Model.
func (c *Custom) VariableInitialGuesses() []float64 {
	out := make([]float64, len(c.unknown))
	for k, i := range c.unknown {
		out[k] = c.logMicro[i]
	}

	return out
}

// NumConstants implements Model.
func (c *Custom) NumConstants() int { return len(c.logFactor) }

// Run implements Model. kVars are log10 micro-constants.
func (c *Custom) Run(kVars []float64) ([]float64, error) {
	if err := param.CheckCount(kVars, len(c.unknown)); err != nil {
		return nil, equilibriumErrorf("Custom.Run", err)
	}
	logM := append([]float64(nil), c.logMicro...)
	for k, i := range c.unknown {
		logM[i] = kVars[k]
	}

	out := make([]float64, len(c.logFactor))
	for j, lf := range c.logFactor {
		if math.IsInf(lf, -1) {
			out[j] = lf
			continue
		}
		sum := lf
		for i, row := range c.exponents {
			if e := row[j]; e != 0 {
				sum += float64(e) * logM[i]
			}
		}
		out[j] = sum
	}

	return out, nil
}
