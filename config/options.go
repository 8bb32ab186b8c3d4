// SPDX-License-Identifier: MIT

package config

import (
	"math"

	"github.com/katalvlaran/titration/fit"
	"github.com/katalvlaran/titration/residual"
	"github.com/katalvlaran/titration/speciation"
)

// FitOptions maps the fit block to fit options. Values the fit package
// would reject are reported as ErrInvalid instead of panicking.
func (f *File) FitOptions() ([]fit.Option, error) {
	c := f.Fit
	var opts []fit.Option

	method, err := fit.ParseMethod(c.Method)
	if err != nil {
		return nil, invalidf("fit.method %q", c.Method)
	}
	opts = append(opts, fit.WithMethod(method))

	switch {
	case c.MaxIterations < 0:
		return nil, invalidf("fit.max_iterations %d", c.MaxIterations)
	case c.MaxIterations > 0:
		opts = append(opts, fit.WithMaxIterations(c.MaxIterations))
	}
	if c.TimeLimit < 0 {
		return nil, invalidf("fit.time_limit %v", c.TimeLimit)
	}
	if c.TimeLimit > 0 {
		opts = append(opts, fit.WithTimeLimit(c.TimeLimit))
	}

	switch c.Jacobian {
	case "", "forward":
	case "central":
		opts = append(opts, fit.WithJacobian(fit.CentralDifference))
	default:
		return nil, invalidf("fit.jacobian %q", c.Jacobian)
	}

	switch c.Weighting {
	case "", "range":
	case "stddev":
		opts = append(opts, fit.WithWeighting(residual.WeightStdDev))
	case "none":
		opts = append(opts, fit.WithWeighting(residual.WeightNone))
	default:
		return nil, invalidf("fit.weighting %q", c.Weighting)
	}

	if c.Penalty != 0 {
		if !(c.Penalty > 0) || math.IsInf(c.Penalty, 0) {
			return nil, invalidf("fit.penalty %g", c.Penalty)
		}
		opts = append(opts, fit.WithPenalty(c.Penalty))
	}
	if r := c.IllPosedRcond; r != nil {
		if *r < 0 || *r >= 1 || math.IsNaN(*r) {
			return nil, invalidf("fit.ill_posed_rcond %g", *r)
		}
		opts = append(opts, fit.WithIllPosedRcond(*r))
	}

	if c.Workers < 0 {
		return nil, invalidf("fit.workers %d", c.Workers)
	}
	if c.Workers > 0 {
		so := speciation.DefaultOptions()
		so.Workers = c.Workers
		opts = append(opts, fit.WithSpeciation(so))
	}

	return opts, nil
}
