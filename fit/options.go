// SPDX-License-Identifier: MIT

package fit

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/titration/residual"
	"github.com/katalvlaran/titration/speciation"
)

// Method selects the minimiser.
type Method int

const (
	// MethodLevenbergMarquardt is the built-in damped Gauss–Newton solver.
	MethodLevenbergMarquardt Method = iota

	// MethodNelderMead is gonum's derivative-free simplex method.
	MethodNelderMead

	// MethodLBFGS is gonum's limited-memory quasi-Newton method.
	MethodLBFGS
)

// String implements fmt.Stringer.
func (m Method) String() string {
	switch m {
	case MethodLevenbergMarquardt:
		return "levenberg-marquardt"
	case MethodNelderMead:
		return "nelder-mead"
	case MethodLBFGS:
		return "lbfgs"
	}

	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a method name ("lm", "levenberg-marquardt",
// "nelder-mead", "lbfgs") to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "", "lm", "levenberg-marquardt":
		return MethodLevenbergMarquardt, nil
	case "nelder-mead", "neldermead":
		return MethodNelderMead, nil
	case "lbfgs":
		return MethodLBFGS, nil
	}

	return 0, fmt.Errorf("ParseMethod(%q): %w", s, ErrBadTitration)
}

// Jacobian selects the finite-difference formula.
type Jacobian int

const (
	// ForwardDifference costs one evaluation per parameter.
	ForwardDifference Jacobian = iota

	// CentralDifference costs two evaluations per parameter.
	CentralDifference
)

// Defaults (single source of truth).
const (
	DefaultMaxIterations  = 200
	DefaultFTol           = 1e-10 // relative cost reduction
	DefaultXTol           = 1e-10 // relative step size
	DefaultGTol           = 1e-12 // max |Jᵀr| in scaled variables
	DefaultPenalty        = 1e3
	DefaultIllPosedRcond  = 1e-6
	DefaultInitialLambda  = 1e-3
	DefaultTimeLimit      = 0 // no limit
	maxLambda             = 1e16
	minLambda             = 1e-12
	panicMaxIterations    = "fit: WithMaxIterations: n must be >= 1"
	panicTimeLimit        = "fit: WithTimeLimit: negative duration"
	panicTolerances       = "fit: WithTolerances: tolerances must be finite and >= 0"
	panicRcond            = "fit: WithIllPosedRcond: rcond must be in [0, 1)"
	panicPenalty          = "fit: WithPenalty: penalty must be finite and > 0"
	panicNilLogger        = "fit: WithLogger: nil logger"
	panicUnknownMethod    = "fit: WithMethod: unknown method"
	panicUnknownJacobian  = "fit: WithJacobian: unknown formula"
	panicUnknownWeighting = "fit: WithWeighting: unknown weighting"
)

// Options holds the effective fitter configuration.
type Options struct {
	maxIterations int
	timeLimit     time.Duration
	ftol, xtol    float64
	gtol          float64
	jacobian      Jacobian
	method        Method
	rcond         float64
	penalty       float64
	lambda0       float64
	weighting     residual.Weighting
	speciation    speciation.Options
	logger        *slog.Logger
}

// Option mutates Options. Options panic on nonsensical values.
type Option func(*Options)

// WithMaxIterations bounds the optimizer's outer iterations.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterations)
	}

	return func(o *Options) { o.maxIterations = n }
}

// WithTimeLimit bounds the wall-clock time of Fit; 0 disables the limit.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic(panicTimeLimit)
	}

	return func(o *Options) { o.timeLimit = d }
}

// WithTolerances sets the relative cost, relative step and gradient
// tolerances. A zero tolerance disables that criterion.
func WithTolerances(ftol, xtol, gtol float64) Option {
	for _, v := range []float64{ftol, xtol, gtol} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			panic(panicTolerances)
		}
	}

	return func(o *Options) { o.ftol, o.xtol, o.gtol = ftol, xtol, gtol }
}

// WithJacobian selects the finite-difference formula.
func WithJacobian(j Jacobian) Option {
	if j != ForwardDifference && j != CentralDifference {
		panic(panicUnknownJacobian)
	}

	return func(o *Options) { o.jacobian = j }
}

// WithMethod selects the minimiser.
func WithMethod(m Method) Option {
	if m < MethodLevenbergMarquardt || m > MethodLBFGS {
		panic(panicUnknownMethod)
	}

	return func(o *Options) { o.method = m }
}

// WithIllPosedRcond sets the threshold on σ_min/σ_max of the column
// normalised Jacobian below which a converged fit is rejected.
// Zero disables the check.
func WithIllPosedRcond(rcond float64) Option {
	if rcond < 0 || rcond >= 1 || math.IsNaN(rcond) {
		panic(panicRcond)
	}

	return func(o *Options) { o.rcond = rcond }
}

// WithPenalty sets the residual assigned to failed speciation points.
func WithPenalty(p float64) Option {
	if !(p > 0) || math.IsInf(p, 0) {
		panic(panicPenalty)
	}

	return func(o *Options) { o.penalty = p }
}

// WithWeighting selects how datasets are weighted against each other.
func WithWeighting(w residual.Weighting) Option {
	if w < residual.WeightRange || w > residual.WeightNone {
		panic(panicUnknownWeighting)
	}

	return func(o *Options) { o.weighting = w }
}

// WithSpeciation replaces the speciation solver options. They are
// validated by New.
func WithSpeciation(so speciation.Options) Option {
	return func(o *Options) { o.speciation = so }
}

// WithLogger routes fit progress to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicNilLogger)
	}

	return func(o *Options) { o.logger = l }
}

// gatherOptions applies user options over the defaults, last writer wins.
func gatherOptions(user ...Option) Options {
	o := Options{
		maxIterations: DefaultMaxIterations,
		timeLimit:     DefaultTimeLimit,
		ftol:          DefaultFTol,
		xtol:          DefaultXTol,
		gtol:          DefaultGTol,
		jacobian:      ForwardDifference,
		method:        MethodLevenbergMarquardt,
		rcond:         DefaultIllPosedRcond,
		penalty:       DefaultPenalty,
		lambda0:       DefaultInitialLambda,
		weighting:     residual.WeightRange,
		speciation:    speciation.DefaultOptions(),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, set := range user {
		set(&o)
	}

	return o
}
