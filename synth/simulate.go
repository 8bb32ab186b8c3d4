// SPDX-License-Identifier: MIT

package synth

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/equilibrium"
	"github.com/katalvlaran/titration/speciation"
)

// ErrSimulation indicates an experiment that cannot be simulated.
var ErrSimulation = errors.New("synth: simulation failed")

// Experiment is a fully known titration.
type Experiment struct {
	Stoichiometry *equilibrium.Stoichiometry
	LogK          []float64  // one log10 constant per complex
	Totals        *mat.Dense // points × free

	// Contributors selects species columns (free ⧺ bound); Coefficients is
	// contributors × channels.
	Contributors []int
	Coefficients *mat.Dense

	// Noise is the standard deviation of the additive Gaussian noise.
	// Channel ch draws from NewRand(DeriveSeed(Seed, ch)).
	Noise float64
	Seed  int64
}

// Data is the simulated outcome.
type Data struct {
	Species *mat.Dense // points × (free+bound)
	Clean   *mat.Dense // points × channels
	Noisy   *mat.Dense // Clean plus noise
}

// Simulate speciates every point and builds the signal.
// Errors: ErrSimulation (bad shapes or a point that fails to speciate).
func Simulate(e Experiment) (*Data, error) {
	if e.Stoichiometry == nil || e.Totals == nil || e.Coefficients == nil {
		return nil, fmt.Errorf("Simulate: %w: incomplete experiment", ErrSimulation)
	}
	rows, channels := e.Coefficients.Dims()
	if rows != len(e.Contributors) {
		return nil, fmt.Errorf("Simulate: %w: %d coefficient rows for %d contributors", ErrSimulation, rows, len(e.Contributors))
	}
	sv, err := speciation.NewSolver(e.Stoichiometry, speciation.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("Simulate: %w: %v", ErrSimulation, err)
	}
	res, err := sv.Solve(e.LogK, e.Totals)
	if err != nil {
		return nil, fmt.Errorf("Simulate: %w: %v", ErrSimulation, err)
	}
	if bad := res.InvalidPoints(); len(bad) > 0 {
		return nil, fmt.Errorf("Simulate: %w: points %v did not speciate", ErrSimulation, bad)
	}

	species := res.Species()
	points, nSpecies := species.Dims()
	x := mat.NewDense(points, len(e.Contributors), nil)
	for k, s := range e.Contributors {
		if s < 0 || s >= nSpecies {
			return nil, fmt.Errorf("Simulate: %w: species index %d", ErrSimulation, s)
		}
		for p := 0; p < points; p++ {
			x.Set(p, k, species.At(p, s))
		}
	}
	clean := mat.NewDense(points, channels, nil)
	clean.Mul(x, e.Coefficients)

	noisy := mat.DenseCopyOf(clean)
	if e.Noise > 0 {
		// One stream per channel: adding or dropping a channel leaves the
		// noise of the others unchanged.
		for ch := 0; ch < channels; ch++ {
			rng := NewRand(DeriveSeed(e.Seed, uint64(ch)))
			for p := 0; p < points; p++ {
				noisy.Set(p, ch, noisy.At(p, ch)+e.Noise*rng.NormFloat64())
			}
		}
	}

	return &Data{Species: species, Clean: clean, Noisy: noisy}, nil
}

// LinearSeries returns n evenly spaced values from from to to inclusive.
// n == 1 yields {from}; n <= 0 yields nil.
func LinearSeries(from, to float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = from
		return out
	}
	step := (to - from) / float64(n-1)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	out[n-1] = to

	return out
}

// HostGuestTotals returns the points × 2 totals of a titration with a
// constant host and a guest ramp from 0 to guestMax.
func HostGuestTotals(points int, host, guestMax float64) *mat.Dense {
	totals := mat.NewDense(points, 2, nil)
	for p, g := range LinearSeries(0, guestMax, points) {
		totals.Set(p, 0, host)
		totals.Set(p, 1, g)
	}

	return totals
}
