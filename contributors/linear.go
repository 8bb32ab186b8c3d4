// SPDX-License-Identifier: MIT

package contributors

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/matrix"
	"github.com/katalvlaran/titration/param"
)

// Model predicts a points × channels signal from species concentrations.
type Model interface {
	param.Model

	// NumSpecies is the number of species columns Run expects.
	NumSpecies() int

	// NumChannels is the number of signal columns.
	NumChannels() int

	// Projected reports whether Run needs the observed signal.
	Projected() bool

	// NumUnknown counts the unknown coefficients, whether they are optimizer
	// variables or solved by projection.
	NumUnknown() int

	// Run predicts the signal. species is points × (free+bound); observed is
	// points × channels and may be nil for models that do not project.
	Run(vars []float64, species, observed mat.Matrix) (*Output, error)
}

// Output is the result of one Run.
type Output struct {
	// Predicted is points × channels.
	Predicted *mat.Dense

	// Coefficients is contributors × channels, known and solved values.
	Coefficients *mat.Dense

	// Deficit is the largest shortfall, over projected channels, of the
	// least-squares rank against the number of unknown coefficients.
	// A positive Deficit means the projection was not uniquely determined.
	Deficit int
}

// cell addresses one unknown coefficient.
type cell struct{ k, ch int }

// Linear is the linear contributor model.
type Linear struct {
	speciesNames []string
	contributors []int
	known        *mat.Dense // contributors × channels, 0 at unknown cells
	unknown      []cell     // row-major
	perChannel   [][]int    // unknown contributor rows per channel
	guesses      []float64
	channels     int

	mode         Mode
	channelNames []string
	rcond        float64
	fraction     []float64 // nil unless WithFractionOf
}

// NewLinear builds a contributor model.
//
// speciesNames lists every species (free ⧺ bound); contributors selects the
// contributing ones by index; coefficients is contributors × channels.
//
// Errors: ErrNoContributors, ErrBadSpecies, ErrBadShape, ErrBadCoefficient.
func NewLinear(speciesNames []string, contributors []int, coefficients [][]param.Value, opts ...Option) (*Linear, error) {
	if len(contributors) == 0 {
		return nil, contributorsErrorf("NewLinear", ErrNoContributors)
	}
	seen := make(map[int]bool, len(contributors))
	for _, s := range contributors {
		if s < 0 || s >= len(speciesNames) || seen[s] {
			return nil, contributorsErrorf(fmt.Sprintf("NewLinear: species %d", s), ErrBadSpecies)
		}
		seen[s] = true
	}
	rows, channels, err := matrix.ValidateTable(coefficients, -1)
	if err != nil || rows != len(contributors) {
		return nil, contributorsErrorf(fmt.Sprintf("NewLinear: coefficients for %d contributors", len(contributors)),
			ErrBadShape)
	}

	l := &Linear{
		speciesNames: append([]string(nil), speciesNames...),
		contributors: append([]int(nil), contributors...),
		known:        mat.NewDense(rows, channels, nil),
		perChannel:   make([][]int, channels),
		channels:     channels,
		mode:         Projected,
		rcond:        DefaultRcond,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.channelNames == nil {
		l.channelNames = make([]string, channels)
		for ch := range l.channelNames {
			l.channelNames[ch] = strconv.Itoa(ch + 1)
		}
	}
	if len(l.channelNames) != channels {
		return nil, contributorsErrorf("NewLinear: channel names", ErrBadShape)
	}
	if l.fraction != nil && len(l.fraction) != len(speciesNames) {
		return nil, contributorsErrorf("NewLinear: fraction counts", ErrBadShape)
	}

	for k, row := range coefficients {
		for ch, v := range row {
			if v.IsKnown() {
				if math.IsNaN(v.Value()) || math.IsInf(v.Value(), 0) {
					return nil, contributorsErrorf(fmt.Sprintf("NewLinear: (%d,%d)", k, ch), ErrBadCoefficient)
				}
				l.known.Set(k, ch, v.Value())
				continue
			}
			l.unknown = append(l.unknown, cell{k: k, ch: ch})
			l.perChannel[ch] = append(l.perChannel[ch], k)
			g := v.Guess()
			if math.IsNaN(g) || math.IsInf(g, 0) {
				g = 0
			}
			l.guesses = append(l.guesses, g)
		}
	}

	return l, nil
}

// VariableNames implements param.Model. Projected models have none.
func (l *Linear) VariableNames() []string {
	if l.mode == Projected {
		return nil
	}
	out := make([]string, len(l.unknown))
	for u, c := range l.unknown {
		out[u] = l.speciesNames[l.contributors[c.k]] + " @ " + l.channelNames[c.ch]
	}

	return out
}

// VariableInitialGuesses implements param.Model.
func (l *Linear) VariableInitialGuesses() []float64 {
	if l.mode == Projected {
		return nil
	}

	return append([]float64(nil), l.guesses...)
}

// NumSpecies implements Model.
func (l *Linear) NumSpecies() int { return len(l.speciesNames) }

// NumChannels implements Model.
func (l *Linear) NumChannels() int { return l.channels }

// Projected implements Model.
func (l *Linear) Projected() bool { return l.mode == Projected && len(l.unknown) > 0 }

// NumUnknown implements Model.
func (l *Linear) NumUnknown() int { return len(l.unknown) }

// Run implements Model.
func (l *Linear) Run(vars []float64, species, observed mat.Matrix) (*Output, error) {
	if err := param.CheckCount(vars, len(l.VariableNames())); err != nil {
		return nil, contributorsErrorf("Linear.Run", err)
	}
	if err := matrix.ValidateNotNil(species); err != nil {
		return nil, contributorsErrorf("Linear.Run: species", fmt.Errorf("%w: %v", ErrBadShape, err))
	}
	points, nSpecies := species.Dims()
	if nSpecies != len(l.speciesNames) {
		return nil, contributorsErrorf(fmt.Sprintf("Linear.Run: %d species columns, want %d", nSpecies, len(l.speciesNames)),
			ErrBadShape)
	}
	if l.Projected() {
		if observed == nil {
			return nil, contributorsErrorf("Linear.Run", ErrObservedRequired)
		}
		if err := matrix.ValidateShape(observed, points, l.channels); err != nil {
			return nil, contributorsErrorf("Linear.Run: observed", fmt.Errorf("%w: %v", ErrBadShape, err))
		}
	}

	x := l.design(species)
	coef := mat.DenseCopyOf(l.known)
	deficit := 0
	if l.mode == Nonlinear {
		for u, c := range l.unknown {
			coef.Set(c.k, c.ch, vars[u])
		}
	} else if len(l.unknown) > 0 {
		deficit = l.project(x, observed, coef)
	}

	out := &Output{Coefficients: coef, Deficit: deficit}
	out.Predicted = mat.NewDense(points, l.channels, nil)
	out.Predicted.Mul(x, coef)

	return out, nil
}

// design builds the points × contributors concentration matrix.
func (l *Linear) design(species mat.Matrix) *mat.Dense {
	points, nSpecies := species.Dims()
	x := mat.NewDense(points, len(l.contributors), nil)
	for p := 0; p < points; p++ {
		total := 1.0
		if l.fraction != nil {
			total = 0
			for s := 0; s < nSpecies; s++ {
				if l.fraction[s] != 0 {
					total += l.fraction[s] * species.At(p, s)
				}
			}
		}
		for k, s := range l.contributors {
			v := species.At(p, s)
			if l.fraction != nil {
				if total == 0 {
					v = 0
				} else {
					v *= l.fraction[s] / total
				}
			}
			x.Set(p, k, v)
		}
	}

	return x
}
