// SPDX-License-Identifier: MIT

package residual

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/titration/matrix"
)

// Weighting selects how dataset weights are derived from the observations.
type Weighting int

const (
	// WeightRange uses 1 / (max − min) of the dataset.
	WeightRange Weighting = iota

	// WeightStdDev uses 1 / sample standard deviation of the dataset.
	WeightStdDev

	// WeightNone uses 1 for every dataset.
	WeightNone
)

// String implements fmt.Stringer.
func (w Weighting) String() string {
	switch w {
	case WeightRange:
		return "range"
	case WeightStdDev:
		return "stddev"
	case WeightNone:
		return "none"
	}

	return fmt.Sprintf("Weighting(%d)", int(w))
}

// Combiner holds the observed datasets and their weights.
type Combiner struct {
	observed []*mat.Dense
	weights  []float64
	offsets  []int
	length   int
}

// NewCombiner copies the observed datasets and computes their weights.
// A dataset whose scale is zero or undefined (a single value) gets weight 1.
//
// Errors: ErrNoData, ErrBadShape (nil dataset), ErrNotFinite.
func NewCombiner(observed []mat.Matrix, w Weighting) (*Combiner, error) {
	if len(observed) == 0 {
		return nil, residualErrorf("NewCombiner", ErrNoData)
	}

	// 1) Copy every dataset, rejecting nil and non-finite observations.
	// 2) Weight it and record where its block starts in the combined vector.
	c := &Combiner{
		observed: make([]*mat.Dense, len(observed)),
		weights:  make([]float64, len(observed)),
		offsets:  make([]int, len(observed)),
	}
	for d, o := range observed {
		if err := matrix.ValidateNotNil(o); err != nil {
			return nil, residualErrorf(fmt.Sprintf("NewCombiner: dataset %d", d), fmt.Errorf("%w: %v", ErrBadShape, err))
		}
		if err := matrix.ValidateFinite(o); err != nil {
			return nil, residualErrorf(fmt.Sprintf("NewCombiner: dataset %d", d), fmt.Errorf("%w: %v", ErrNotFinite, err))
		}
		c.observed[d] = mat.DenseCopyOf(o)
		c.weights[d] = weightOf(matrix.Flatten(nil, o), w)
		c.offsets[d] = c.length
		r, cols := o.Dims()
		c.length += r * cols
	}

	return c, nil
}

// weightOf returns the dataset weight for the given scheme.
func weightOf(data []float64, w Weighting) float64 {
	var scale float64
	var err error
	switch w {
	case WeightRange:
		var lo, hi float64
		if lo, err = stats.Min(data); err == nil {
			hi, err = stats.Max(data)
		}
		scale = hi - lo
	case WeightStdDev:
		scale, err = stats.StandardDeviationSample(data)
	default:
		return 1
	}
	if err != nil || !(scale > 0) || math.IsInf(scale, 0) {
		return 1
	}

	return 1 / scale
}

// Len returns the length of the combined residual vector.
func (c *Combiner) Len() int { return c.length }

// Weights returns a copy of the dataset weights.
func (c *Combiner) Weights() []float64 { return append([]float64(nil), c.weights...) }

// Combine writes the weighted residuals into dst, reusing its storage when
// large enough, and returns it. predicted[d] must match observed dataset d;
// invalid (may be nil) flags penalised points, shared by all datasets.
//
// Errors: ErrBadShape, ErrNotFinite (penalty).
func (c *Combiner) Combine(dst []float64, predicted []*mat.Dense, invalid []bool, penalty float64) ([]float64, error) {
	if len(predicted) != len(c.observed) {
		return nil, residualErrorf(fmt.Sprintf("Combine: %d predictions for %d datasets", len(predicted), len(c.observed)),
			ErrBadShape)
	}
	if math.IsNaN(penalty) || math.IsInf(penalty, 0) {
		return nil, residualErrorf(fmt.Sprintf("Combine: penalty %g", penalty), ErrNotFinite)
	}

	// Reuse dst when it can hold the whole vector.
	if cap(dst) < c.length {
		dst = make([]float64, c.length)
	}
	dst = dst[:c.length]

	for d, obs := range c.observed {
		// 1) Shape checks against the stored observation.
		rows, cols := obs.Dims()
		if err := matrix.ValidateShape(predicted[d], rows, cols); err != nil {
			return nil, residualErrorf(fmt.Sprintf("Combine: dataset %d", d), fmt.Errorf("%w: %v", ErrBadShape, err))
		}
		if invalid != nil && len(invalid) != rows {
			return nil, residualErrorf(fmt.Sprintf("Combine: %d flags for %d points", len(invalid), rows), ErrBadShape)
		}

		// 2) Weighted residuals; a penalised point fills its whole row.
		w := c.weights[d]
		out := dst[c.offsets[d] : c.offsets[d]+rows*cols]
		for p := 0; p < rows; p++ {
			row := out[p*cols : (p+1)*cols]
			if invalid != nil && invalid[p] {
				for ch := range row {
					row[ch] = penalty
				}
				continue
			}
			for ch := range row {
				row[ch] = w * (predicted[d].At(p, ch) - obs.At(p, ch))
			}
		}
	}

	return dst, nil
}
