// SPDX-License-Identifier: MIT

package speciation

import (
	"fmt"
	"math"
)

// Defaults of the per-point Newton solver.
const (
	// DefaultMaxIterations bounds the Newton iterations per point.
	DefaultMaxIterations = 100

	// DefaultTolerance is the relative mass-balance tolerance.
	DefaultTolerance = 1e-12

	// DefaultMaxLogStep caps each Newton step in ln-concentration units.
	DefaultMaxLogStep = 10.0

	// DefaultWorkers solves points sequentially.
	DefaultWorkers = 1
)

// Options configures a Solver. Zero fields take their defaults.
type Options struct {
	// MaxIterations is the Newton iteration budget per point.
	MaxIterations int

	// Tolerance is the convergence threshold on max_i |r_i| / s_i, where
	// s_i = max(T_i, f_i + Σ_b |S_bi| c_b).
	Tolerance float64

	// MaxLogStep caps |Δ ln f_i| per iteration.
	MaxLogStep float64

	// Workers > 1 solves points concurrently with independent seeds.
	Workers int

	// WarmStart seeds each point from the previous one when sequential.
	WarmStart bool
}

// DefaultOptions returns the recommended settings.
func DefaultOptions() Options {
	return Options{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		MaxLogStep:    DefaultMaxLogStep,
		Workers:       DefaultWorkers,
		WarmStart:     true,
	}
}

// normalize fills zero fields with defaults and rejects negative or NaN ones.
func (o Options) normalize() (Options, error) {
	if o.MaxIterations < 0 || o.Workers < 0 ||
		o.Tolerance < 0 || math.IsNaN(o.Tolerance) ||
		o.MaxLogStep < 0 || math.IsNaN(o.MaxLogStep) {
		return o, fmt.Errorf("%w: %+v", ErrBadOptions, o)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxLogStep == 0 {
		o.MaxLogStep = DefaultMaxLogStep
	}
	if o.Workers == 0 {
		o.Workers = DefaultWorkers
	}

	return o, nil
}
