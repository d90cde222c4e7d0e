// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/check.v1"

	"github.com/kortschak/mafq/filter"
	"github.com/kortschak/mafq/internal/mafio"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func block(query, a, b string, src int) string {
	return fmt.Sprintf("a score=1\ns %s.q 0 %d + %d %s\ns t.chr1 0 %d + %d %s\n", query, len(a), src, a, len(b), src, b)
}

var (
	pass    = block("gene_1", "ACGTACGTAC", "ACGTACGTAC", 10)
	lowID   = block("gene_2", "ACGTACGTAC", "TGCATGCATG", 10)
	lowCov  = block("gene_3", "ACGTACGTAC", "ACGTACGTAC", 100)
	gapped  = block("gene_4", "ACG----TAC", "ACGTACGTAC", 10)
	three   = pass + "s t.chr2 0 10 + 10 ACGTACGTAC\n"
	passToo = block("gene_5", "ACGTACGTAA", "ACGTACGTAC", 10)
)

func input(c *check.C) string {
	in := "##maf version=1\n\n" + strings.Join([]string{pass, lowID, three, lowCov, gapped, passToo}, "\n")
	path := filepath.Join(c.MkDir(), "in.maf")
	c.Assert(os.WriteFile(path, []byte(in), 0o664), check.Equals, nil)
	return path
}

func (s *S) TestQFilter(c *check.C) {
	in := input(c)
	for _, name := range []string{"out.maf", "out.maf.gz"} {
		out := filepath.Join(c.MkDir(), name)
		kept, total, err := qfilter(in, out, filter.DefaultThresholds, 2)
		c.Assert(err, check.Equals, nil, check.Commentf("%s", name))
		// The version line is a block of its own.
		c.Check(total, check.Equals, 7, check.Commentf("%s", name))
		c.Check(kept, check.HasLen, 2, check.Commentf("%s", name))

		r, err := mafio.Open(out)
		c.Assert(err, check.Equals, nil)
		got, err := io.ReadAll(r)
		c.Check(err, check.Equals, nil)
		c.Check(r.Close(), check.Equals, nil)
		c.Check(string(got), check.Equals, pass+"\n"+passToo+"\n", check.Commentf("%s", name))
	}
}

func (s *S) TestQFilterMissingInput(c *check.C) {
	dir := c.MkDir()
	_, _, err := qfilter(filepath.Join(dir, "missing.maf"), filepath.Join(dir, "out.maf"), filter.DefaultThresholds, 1)
	c.Check(err, check.NotNil)
}
