// SPDX-License-Identifier: MIT

package contributors

import (
	"fmt"
	"math"
)

// Mode selects how unknown coefficients are obtained.
type Mode int

const (
	// Projected solves unknown coefficients by linear least squares inside
	// every evaluation.
	Projected Mode = iota

	// Nonlinear exposes unknown coefficients as optimizer variables.
	Nonlinear
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Projected:
		return "projected"
	case Nonlinear:
		return "nonlinear"
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// DefaultRcond is the relative singular-value cutoff of the projection.
const DefaultRcond = 1e-10

// Option configures a Linear model.
// Options panic on nonsensical values.
type Option func(*Linear)

// WithMode selects Projected or Nonlinear coefficients.
func WithMode(m Mode) Option {
	if m != Projected && m != Nonlinear {
		panic(fmt.Sprintf("contributors: WithMode(%d): unknown mode", int(m)))
	}

	return func(l *Linear) { l.mode = m }
}

// WithChannelNames labels the signal channels ("450" in "HG @ 450").
func WithChannelNames(names []string) Option {
	names = append([]string(nil), names...)

	return func(l *Linear) { l.channelNames = names }
}

// WithRcond sets the singular-value cutoff used to determine the rank of
// each projected channel.
func WithRcond(rcond float64) Option {
	if rcond < 0 || math.IsNaN(rcond) || math.IsInf(rcond, 0) {
		panic(fmt.Sprintf("contributors: WithRcond(%g): must be finite and >= 0", rcond))
	}

	return func(l *Linear) { l.rcond = rcond }
}

// WithFractionOf turns contributor concentrations into mole fractions of one
// free component, as observed in fast-exchange NMR. counts[s] is the number
// of units of that component in species s (free ⧺ bound order). At every
// point the total of the component is Σ_s counts[s]·conc[p][s], and
// contributor k is weighted by counts[k] / total. A zero total gives zero
// fractions.
func WithFractionOf(counts []int) Option {
	if len(counts) == 0 {
		panic("contributors: WithFractionOf: empty counts")
	}
	c := make([]float64, len(counts))
	for s, n := range counts {
		if n < 0 {
			panic(fmt.Sprintf("contributors: WithFractionOf: negative count %d for species %d", n, s))
		}
		c[s] = float64(n)
	}

	return func(l *Linear) { l.fraction = c }
}
