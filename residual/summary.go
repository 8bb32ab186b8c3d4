// SPDX-License-Identifier: MIT

package residual

import (
	"math"

	"github.com/montanaflynn/stats"
)

// Stats summarises a residual vector.
type Stats struct {
	Mean   float64
	StdDev float64 // sample standard deviation, 0 for fewer than two values
	MaxAbs float64
	RMS    float64
	Norm   float64 // Euclidean norm
}

// Summary describes r. An empty vector yields the zero Stats.
func Summary(r []float64) Stats {
	if len(r) == 0 {
		return Stats{}
	}
	var s Stats
	s.Mean, _ = stats.Mean(r)
	if len(r) > 1 {
		s.StdDev, _ = stats.StandardDeviationSample(r)
	}
	abs := make([]float64, len(r))
	for i, v := range r {
		abs[i] = math.Abs(v)
	}
	s.MaxAbs, _ = stats.Max(abs)
	ss := 0.0
	for _, v := range r {
		ss += v * v
	}
	s.Norm = math.Sqrt(ss)
	s.RMS = math.Sqrt(ss / float64(len(r)))

	return s
}
