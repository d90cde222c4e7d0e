// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the distribution of the metrics of a set of verdicts.
type Summary struct {
	N          int
	Identity   Moments
	Continuity Moments
	Coverage   Moments
}

// Moments is the mean and standard deviation of a metric.
type Moments struct {
	Mean, StdDev float64
}

func (m Moments) String() string {
	return fmt.Sprintf("%.2f±%.2f", m.Mean, m.StdDev)
}

// Summarize returns the summary of the measured verdicts in v.
func Summarize(v []Verdict) Summary {
	identity := make([]float64, 0, len(v))
	continuity := make([]float64, 0, len(v))
	coverage := make([]float64, 0, len(v))
	for _, r := range v {
		if !r.Measured {
			continue
		}
		identity = append(identity, r.Metrics.Identity)
		continuity = append(continuity, r.Metrics.Continuity)
		coverage = append(coverage, r.Metrics.Coverage)
	}
	s := Summary{N: len(identity)}
	if s.N == 0 {
		return s
	}
	s.Identity = moments(identity)
	s.Continuity = moments(continuity)
	s.Coverage = moments(coverage)
	return s
}

func moments(x []float64) Moments {
	if len(x) == 1 {
		return Moments{Mean: x[0]}
	}
	mean, std := stat.MeanStdDev(x, nil)
	return Moments{Mean: mean, StdDev: std}
}
