// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The audit-maf-db command allows the score store generated during a
// disk-backed run of maf-topn to be queried. The store is found in the
// working directory noted in the log output of maf-topn and will remain
// after maf-topn completes if it is given the -work flag.
//
// Output from audit-maf-db is a JSON stream on stdout, one record per
// alignment block in query, descending score order, corresponding to the
// following Go struct. The ordinal is the position of the block among the
// blocks retained by the parser.
//
//	struct {
//		Query   string
//		Score   int64
//		Ordinal int64
//	}
//
// If the -n flag is given, the stream instead holds one record per query
// with the score threshold that block would need to be retained.
//
//	struct {
//		Query     string
//		Threshold int
//	}
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"sort"

	"github.com/kortschak/mafq/internal/store"
)

func main() {
	path := flag.String("db", "", "specify db file to audit (required)")
	n := flag.Int("n", 0, "specify the per-query rank to report thresholds for (<=0 is report all records)")
	flag.Parse()
	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := store.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	enc := json.NewEncoder(os.Stdout)
	if *n <= 0 {
		err = db.Do(func(k store.ScoreKey) error {
			return enc.Encode(k)
		})
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	thresh, err := db.Thresholds(*n)
	if err != nil {
		log.Fatal(err)
	}
	queries := make([]string, 0, len(thresh))
	for q := range thresh {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	for _, q := range queries {
		err = enc.Encode(threshold{Query: q, Threshold: thresh[q]})
		if err != nil {
			log.Fatal(err)
		}
	}
}

type threshold struct {
	Query     string
	Threshold int
}
