// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// maf-topn filters a MAF file so that for each query gene only the blocks
// scoring at or above the gene's N-th best score are kept. Blocks tied with
// the N-th best score are all kept. The query gene of a block is taken from
// the first sequence line whose source name contains the gene prefix followed
// by digits. Blocks without a query gene and blocks that are not pairwise are
// dropped.
//
// By default all blocks are held in memory. With the -disk flag, block scores
// are staged in an on-disk store and the input is read a second time to write
// the kept blocks; the input must then be a file. The store may be inspected
// with audit-maf-db if the -work flag is given.
//
// usage: maf-topn -in in.maf[.gz] -out out.maf [-queryhspbest 20] [-disk [-work]]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kortschak/mafq/filter"
	"github.com/kortschak/mafq/internal/mafio"
	"github.com/kortschak/mafq/internal/store"
	"github.com/kortschak/mafq/maf"
)

func main() {
	in := flag.String("in", "", "specify input MAF file, possibly compressed (required)")
	out := flag.String("out", "", "specify output MAF file, BGZF compressed if named .gz (required, - for stdout)")
	n := flag.Int("queryhspbest", 20, "specify the number of best scoring blocks to retain per query gene")
	prefix := flag.String("prefix", maf.DefaultQueryPrefix, "specify the query gene identifier prefix")
	disk := flag.Bool("disk", false, "specify to stage block scores on disk")
	work := flag.Bool("work", false, "specify to keep the on-disk score store")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *n < 1 {
		log.Fatalf("invalid -queryhspbest value: %d", *n)
	}
	if *prefix == "" {
		log.Fatal("empty query gene prefix")
	}
	if *disk && *in == "-" {
		log.Fatal("cannot use -disk with standard input")
	}

	log.Println(os.Args)

	query := maf.QueryPattern(*prefix)

	dst, err := mafio.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	w := maf.NewWriter(dst)

	var kept, total int
	if *disk {
		kept, total, err = topNOnDisk(w, *in, query, *n, *work)
	} else {
		kept, total, err = topN(w, *in, query, *n)
	}
	if err != nil {
		log.Fatal(err)
	}

	err = w.Flush()
	if err != nil {
		log.Fatalf("failed to write block: %v", err)
	}
	err = dst.Close()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Filtered MAF: kept %d blocks (out of %d)\n", kept, total)
}

// topN writes the top n scoring blocks per query in the MAF file at path
// to w, holding all blocks in memory.
func topN(w *maf.Writer, path string, query *regexp.Regexp, n int) (kept, total int, err error) {
	var blocks []*maf.Block
	err = each(path, query, func(b *maf.Block) error {
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	for _, b := range filter.TopN(blocks, n) {
		err = w.Write(b.Raw)
		if err != nil {
			return kept, len(blocks), fmt.Errorf("failed to write block: %w", err)
		}
		kept++
	}
	return kept, len(blocks), nil
}

// topNOnDisk writes the top n scoring blocks per query in the MAF file at
// path to w, holding only block scores in a kv store in a temporary
// directory. If keep is true, the directory is not removed.
func topNOnDisk(w *maf.Writer, path string, query *regexp.Regexp, n int, keep bool) (kept, total int, err error) {
	tmpDir, err := os.MkdirTemp("", "maf-topn-*")
	if err != nil {
		return 0, 0, err
	}
	log.Printf("working in %s", tmpDir)
	if keep {
		log.Println("keeping work")
	} else {
		defer os.RemoveAll(tmpDir)
	}

	db, err := store.Create(filepath.Join(tmpDir, "scores.db"))
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	log.Println("staging scores")
	err = each(path, query, func(b *maf.Block) error {
		return db.Add(b.Query, b.Score)
	})
	if err != nil {
		return 0, 0, err
	}
	total = int(db.Len())

	thresh, err := db.Thresholds(n)
	if err != nil {
		return 0, total, err
	}
	log.Printf("found %d query genes", len(thresh))

	log.Println("writing kept blocks")
	err = each(path, query, func(b *maf.Block) error {
		if b.Score < thresh[b.Query] {
			return nil
		}
		kept++
		return w.Write(b.Raw)
	})
	return kept, total, err
}

// each calls fn on each block read from the MAF file at path.
func each(path string, query *regexp.Regexp, fn func(*maf.Block) error) error {
	f, err := mafio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := maf.NewReader(f, query)
	for {
		b, err := r.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("error reading %s: %w", path, err)
		}
		err = fn(b)
		if err != nil {
			return err
		}
	}
}
