// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filter provides alignment block quality and per-query ranking
// filters.
package filter

import (
	"fmt"

	"github.com/exascience/pargo/pipeline"

	"github.com/kortschak/mafq/maf"
)

// Thresholds holds the minimum percentage of each quality metric a block
// must reach to be kept.
type Thresholds struct {
	Identity   float64
	Continuity float64
	Coverage   float64
}

// DefaultThresholds are the thresholds used for phylogenomic input.
var DefaultThresholds = Thresholds{Identity: 65, Continuity: 85, Coverage: 85}

// Verdict is the result of classifying a block.
type Verdict struct {
	Raw     string
	Metrics maf.Metrics

	// Measured is false when the block was rejected
	// without computing its metrics.
	Measured bool

	Pass bool
}

// Classify returns the verdict for the block text raw. Blocks that are not
// pairwise are rejected without measurement. An error is returned only if
// a sequence line in the block can not be parsed.
func (t Thresholds) Classify(raw string) (Verdict, error) {
	b, err := maf.ParseBlock(raw)
	if err != nil {
		return Verdict{}, err
	}
	m, ok := b.Metrics()
	if !ok {
		return Verdict{Raw: raw}, nil
	}
	return Verdict{
		Raw:      raw,
		Metrics:  m,
		Measured: true,
		Pass:     t.Pass(m),
	}, nil
}

// Pass returns whether m meets all the thresholds in t.
func (t Thresholds) Pass(m maf.Metrics) bool {
	return m.Identity >= t.Identity &&
		m.Continuity >= t.Continuity &&
		m.Coverage >= t.Coverage
}

// Quality returns the verdicts for the blocks that pass t, in the order
// they appear in blocks. Blocks are classified by at most workers
// concurrent goroutines, or a default based on GOMAXPROCS if workers is
// not positive. If any block fails to parse, no verdicts are returned.
func Quality(blocks []string, t Thresholds, workers int) ([]Verdict, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	if workers < 0 {
		workers = 0
	}

	var (
		p    pipeline.Pipeline
		kept []Verdict
	)
	p.Source(blocks)
	p.Add(
		pipeline.LimitedPar(workers, pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.([]string)
			verdicts := make([]Verdict, 0, len(batch))
			for _, raw := range batch {
				v, err := t.Classify(raw)
				if err != nil {
					p.SetErr(fmt.Errorf("%w, while classifying alignment block", err))
					return verdicts
				}
				if v.Pass {
					verdicts = append(verdicts, v)
				}
			}
			return verdicts
		})),
		pipeline.StrictOrd(pipeline.Slice(&kept)),
	)
	p.Run()
	if err := p.Err(); err != nil {
		return nil, err
	}
	return kept, nil
}
