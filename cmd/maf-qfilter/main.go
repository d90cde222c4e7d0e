// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// maf-qfilter removes low quality pairwise alignment blocks from a MAF file.
// A block is kept only if it has exactly two sequence lines and its sequence
// identity is at least 65%, its continuity at least 85% and its coverage of
// the shorter source sequence at least 85%. Kept blocks are written in their
// input order.
//
// usage: maf-qfilter -in in.maf -out out.maf [-threads 4]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/mafq/filter"
	"github.com/kortschak/mafq/internal/mafio"
	"github.com/kortschak/mafq/maf"
)

func main() {
	in := flag.String("in", "", "specify input MAF file, possibly compressed (required, - for stdin)")
	out := flag.String("out", "", "specify output MAF file, BGZF compressed if named .gz (required, - for stdout)")
	threads := flag.Int("threads", 4, "specify the number of classification workers (<=0 is use all cores)")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println(os.Args)

	kept, total, err := qfilter(*in, *out, filter.DefaultThresholds, *threads)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total alignment blocks: %d\n", total)
	fmt.Printf("Kept alignment blocks: %d\n", len(kept))

	s := filter.Summarize(kept)
	if s.N != 0 {
		log.Printf("kept block identity %v continuity %v coverage %v", s.Identity, s.Continuity, s.Coverage)
	}
}

// qfilter writes the blocks of the MAF file at in that pass t to the file
// at out, returning the verdicts of the kept blocks and the number of
// blocks read.
func qfilter(in, out string, t filter.Thresholds, workers int) (kept []filter.Verdict, total int, err error) {
	r, err := mafio.Open(in)
	if err != nil {
		return nil, 0, err
	}
	blocks, err := maf.SplitBlocks(r)
	r.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", in, err)
	}

	kept, err = filter.Quality(blocks, t, workers)
	if err != nil {
		return nil, len(blocks), fmt.Errorf("failed to filter %s: %w", in, err)
	}

	dst, err := mafio.Create(out)
	if err != nil {
		return nil, len(blocks), err
	}
	w := maf.NewWriter(dst)
	for _, v := range kept {
		err = w.Write(v.Raw)
		if err != nil {
			dst.Close()
			return nil, len(blocks), fmt.Errorf("failed to write block: %w", err)
		}
	}
	err = w.Flush()
	if err != nil {
		dst.Close()
		return nil, len(blocks), fmt.Errorf("failed to write block: %w", err)
	}
	err = dst.Close()
	if err != nil {
		return nil, len(blocks), err
	}
	return kept, len(blocks), nil
}
