// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"gopkg.in/check.v1"

	"github.com/kortschak/mafq/maf"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func block(name string, a, b string, size, srcA, srcB int) string {
	return fmt.Sprintf("a score=10\ns %s.q 0 %d + %d %s\ns t.chr1 0 %d + %d %s\n", name, size, srcA, a, size, srcB, b)
}

var (
	good        = block("gene_1", "ACGTACGTAC", "ACGTACGTAC", 10, 10, 20)
	lowIdentity = block("gene_2", "ACGTACGTAC", "TGCATGCATG", 10, 10, 20)
	lowCoverage = block("gene_3", "ACGTACGTAC", "ACGTACGTAC", 10, 100, 200)
	gappy       = block("gene_4", "ACGT--GTAC", "ACGTACGTAC", 10, 10, 20)
	triple      = good + "s t.chr2 0 10 + 20 ACGTACGTAC\n"
	broken      = "a score=1\ns gene_5.q 0 ten + 10 ACGTACGTAC\ns t.chr1 0 10 + 10 ACGTACGTAC\n"

	// Not pairwise, so the truncated line is never parsed.
	brokenTriple = good + "s t.chr1 0 10 + 20\n"
)

func (s *S) TestClassify(c *check.C) {
	for i, t := range []struct {
		raw      string
		measured bool
		pass     bool
	}{
		{raw: good, measured: true, pass: true},
		{raw: lowIdentity, measured: true, pass: false},
		{raw: lowCoverage, measured: true, pass: false},
		{raw: gappy, measured: true, pass: false},
		{raw: triple, measured: false, pass: false},
		{raw: brokenTriple, measured: false, pass: false},
		{raw: "a score=1\n", measured: false, pass: false},
	} {
		v, err := DefaultThresholds.Classify(t.raw)
		c.Assert(err, check.Equals, nil, check.Commentf("Test %d", i))
		c.Check(v.Measured, check.Equals, t.measured, check.Commentf("Test %d", i))
		c.Check(v.Pass, check.Equals, t.pass, check.Commentf("Test %d", i))
		c.Check(v.Raw, check.Equals, t.raw, check.Commentf("Test %d", i))
	}

	_, err := DefaultThresholds.Classify(broken)
	c.Check(errors.Is(err, maf.ErrSyntax), check.Equals, true)
}

func (s *S) TestThresholdBoundary(c *check.C) {
	// Thresholds are inclusive.
	c.Check(DefaultThresholds.Pass(maf.Metrics{Identity: 65, Continuity: 85, Coverage: 85}), check.Equals, true)
	c.Check(DefaultThresholds.Pass(maf.Metrics{Identity: 64.9, Continuity: 85, Coverage: 85}), check.Equals, false)
	c.Check(DefaultThresholds.Pass(maf.Metrics{Identity: 65, Continuity: 84.9, Coverage: 85}), check.Equals, false)
	c.Check(DefaultThresholds.Pass(maf.Metrics{Identity: 65, Continuity: 85, Coverage: 84.9}), check.Equals, false)
}

func (s *S) TestQualityOrder(c *check.C) {
	var (
		blocks []string
		want   []string
	)
	for i := 0; i < 2000; i++ {
		name := fmt.Sprintf("gene_%d", i)
		switch i % 4 {
		case 0, 3:
			b := block(name, "ACGTACGTAC", "ACGTACGTAC", 10, 10, 20)
			blocks = append(blocks, b)
			want = append(want, b)
		case 1:
			blocks = append(blocks, block(name, "ACGTACGTAC", "TGCATGCATG", 10, 10, 20))
		case 2:
			blocks = append(blocks, block(name, "ACGTACGTAC", "ACGTACGTAC", 10, 10, 20)+"s t.chr2 0 10 + 20 ACGTACGTAC\n")
		}
	}

	for _, workers := range []int{1, 2, 8, 0} {
		kept, err := Quality(blocks, DefaultThresholds, workers)
		c.Assert(err, check.Equals, nil, check.Commentf("workers=%d", workers))
		got := make([]string, len(kept))
		for i, v := range kept {
			got[i] = v.Raw
		}
		c.Check(got, check.DeepEquals, want, check.Commentf("workers=%d", workers))
	}
}

func (s *S) TestQualityEmpty(c *check.C) {
	kept, err := Quality(nil, DefaultThresholds, 4)
	c.Check(err, check.Equals, nil)
	c.Check(kept, check.HasLen, 0)
}

func (s *S) TestQualityError(c *check.C) {
	blocks := []string{good, good, broken, good}
	kept, err := Quality(blocks, DefaultThresholds, 2)
	c.Check(errors.Is(err, maf.ErrSyntax), check.Equals, true)
	c.Check(kept, check.IsNil)
}

func (s *S) TestQualityMalformedDropped(c *check.C) {
	blocks := []string{good, brokenTriple, lowIdentity, good}
	kept, err := Quality(blocks, DefaultThresholds, 2)
	c.Assert(err, check.Equals, nil)
	c.Assert(kept, check.HasLen, 2)
	for _, v := range kept {
		c.Check(v.Raw, check.Equals, good)
	}
}

func (s *S) TestQualityFromSplit(c *check.C) {
	in := strings.Join([]string{"##maf version=1\n", good, triple, lowIdentity, good}, "\n\n")
	blocks, err := maf.SplitBlocks(strings.NewReader(in))
	c.Assert(err, check.Equals, nil)
	c.Check(blocks, check.HasLen, 5)
	kept, err := Quality(blocks, DefaultThresholds, 3)
	c.Assert(err, check.Equals, nil)
	c.Check(kept, check.HasLen, 2)
}

func (s *S) TestSummarize(c *check.C) {
	c.Check(Summarize(nil), check.Equals, Summary{})

	v := []Verdict{
		{Measured: true, Metrics: maf.Metrics{Identity: 90, Continuity: 100, Coverage: 80}},
		{Measured: true, Metrics: maf.Metrics{Identity: 70, Continuity: 100, Coverage: 100}},
		{Measured: false},
	}
	got := Summarize(v)
	c.Check(got.N, check.Equals, 2)
	c.Check(got.Identity.Mean, check.Equals, 80.0)
	c.Check(math.Abs(got.Identity.StdDev-math.Sqrt(200)) < 1e-9, check.Equals, true)
	c.Check(got.Continuity, check.Equals, Moments{Mean: 100, StdDev: 0})
	c.Check(got.Coverage.Mean, check.Equals, 90.0)

	one := Summarize(v[:1])
	c.Check(one.Identity, check.Equals, Moments{Mean: 90})
	c.Check(one.Identity.String(), check.Equals, "90.00±0.00")
}

func scored(query string, scores ...int) []*maf.Block {
	b := make([]*maf.Block, len(scores))
	for i, s := range scores {
		b[i] = &maf.Block{Score: s, Query: query, Raw: fmt.Sprintf("%s:%d:%d", query, i, s)}
	}
	return b
}

func raws(blocks []*maf.Block) []string {
	r := make([]string, len(blocks))
	for i, b := range blocks {
		r[i] = b.Raw
	}
	return r
}

func (s *S) TestThreshold(c *check.C) {
	for i, t := range []struct {
		scores []int
		n      int
		want   int
	}{
		{scores: []int{10, 9, 8, 8, 7}, n: 3, want: 8},
		{scores: []int{7, 8, 10, 8, 9}, n: 3, want: 8},
		{scores: []int{7, 8}, n: 5, want: 7},
		{scores: []int{-3, -1, -2}, n: 1, want: -1},
		{scores: []int{5, 4, 3}, n: 3, want: 3},
		{scores: []int{5, 4, 3}, n: 0, want: 3},
	} {
		c.Check(Threshold(t.scores, t.n), check.Equals, t.want, check.Commentf("Test %d", i))
	}
}

func (s *S) TestTopNTies(c *check.C) {
	blocks := scored("gene_1", 10, 9, 8, 8, 7)
	got := TopN(blocks, 3)
	c.Check(raws(got), check.DeepEquals, []string{"gene_1:0:10", "gene_1:1:9", "gene_1:2:8", "gene_1:3:8"})
}

func (s *S) TestTopNSmallGroup(c *check.C) {
	blocks := scored("gene_1", 3, 4)
	c.Check(TopN(blocks, 5), check.HasLen, 2)
}

func (s *S) TestTopNGroups(c *check.C) {
	a := scored("gene_1", 1, 5, 3, 4)
	b := scored("gene_2", 9, 2)
	blocks := []*maf.Block{a[0], b[0], a[1], a[2], b[1], a[3]}
	got := TopN(blocks, 2)
	c.Check(raws(got), check.DeepEquals, []string{"gene_2:0:9", "gene_1:1:5", "gene_2:1:2", "gene_1:3:4"})

	c.Check(GroupThresholds(blocks, 2), check.DeepEquals, map[string]int{"gene_1": 4, "gene_2": 2})
	c.Check(TopN(blocks, 0), check.HasLen, len(blocks))
	c.Check(TopN(nil, 3), check.HasLen, 0)
}
