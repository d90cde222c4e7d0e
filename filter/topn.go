// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"sort"

	"github.com/kortschak/mafq/maf"
)

// Threshold returns the n-th highest score in scores, counting from one.
// If scores has fewer than n elements, or n is less than one, the lowest
// score is returned. Threshold sorts scores in place into descending
// order. It panics if scores is empty.
func Threshold(scores []int, n int) int {
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	if n < 1 || len(scores) < n {
		return scores[len(scores)-1]
	}
	return scores[n-1]
}

// GroupThresholds returns the score threshold for each query identifier
// in blocks, such that blocks at or above their query's threshold are
// the top n scoring blocks for that query, including any blocks tied
// with the n-th.
func GroupThresholds(blocks []*maf.Block, n int) map[string]int {
	scores := make(map[string][]int)
	for _, b := range blocks {
		scores[b.Query] = append(scores[b.Query], b.Score)
	}
	thresh := make(map[string]int, len(scores))
	for q, s := range scores {
		thresh[q] = Threshold(s, n)
	}
	return thresh
}

// TopN returns the blocks that score at or above the n-th highest score
// of blocks sharing their query identifier. Ties with the n-th score are
// all kept, so more than n blocks may be returned for a query. Blocks are
// returned in their input order. If n is less than one all blocks are kept.
func TopN(blocks []*maf.Block, n int) []*maf.Block {
	thresh := GroupThresholds(blocks, n)
	var kept []*maf.Block
	for _, b := range blocks {
		if b.Score >= thresh[b.Query] {
			kept = append(kept, b)
		}
	}
	return kept
}
