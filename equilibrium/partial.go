// SPDX-License-Identifier: MIT

package equilibrium

import (
	"fmt"

	"github.com/katalvlaran/titration/param"
)

// Partial holds a mix of fixed and fitted constants.
type Partial struct {
	logK    []float64 // fixed slots; unknown slots hold their log guess
	unknown []int     // positions of unknown slots, ascending
	names   []string
}

// NewPartial builds a model from one Value per complex. Known values and
// guesses are linear constants. An unnamed unknown at slot j is called
// "K<j+1>".
//
// Errors: ErrNoSpecies, ErrBadConstant (negative or non-finite known value).
func NewPartial(values []param.Value) (*Partial, error) {
	if len(values) == 0 {
		return nil, equilibriumErrorf("NewPartial", ErrNoSpecies)
	}
	p := &Partial{logK: make([]float64, len(values))}
	for j, v := range values {
		if v.IsKnown() {
			lk, err := logOf(v.Value())
			if err != nil {
				return nil, equilibriumErrorf(fmt.Sprintf("NewPartial: slot %d", j), err)
			}
			p.logK[j] = lk
			continue
		}
		name := v.Name()
		if name == "" {
			name = fmt.Sprintf("K%d", j+1)
		}
		p.unknown = append(p.unknown, j)
		p.names = append(p.names, name)
		p.logK[j] = logGuess(v.Guess())
	}

	return p, nil
}

// VariableNames implements param.Model.
func (p *Partial) VariableNames() []string { return append([]string(nil), p.names...) }

// VariableInitialGuesses implements param.Model.
func (p *Partial) VariableInitialGuesses() []float64 {
	out := make([]float64, len(p.unknown))
	for k, j := range p.unknown {
		out[k] = p.logK[j]
	}

	return out
}

// NumConstants implements Model.
func (p *Partial) NumConstants() int { return len(p.logK) }

// Run implements Model.
func (p *Partial) Run(kVars []float64) ([]float64, error) {
	if err := param.CheckCount(kVars, len(p.unknown)); err != nil {
		return nil, equilibriumErrorf("Partial.Run", err)
	}
	out := append([]float64(nil), p.logK...)
	for k, j := range p.unknown {
		out[j] = kVars[k]
	}

	return out, nil
}
