// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// fadedup removes FASTA records with a header that has already been seen,
// keeping the first record for each header. Sequence data is written in
// 60 column lines.
//
// usage: fadedup -in in.fa -out out.fa
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/mafq/fadedup"
	"github.com/kortschak/mafq/internal/mafio"
)

func main() {
	in := flag.String("in", "", "specify input FASTA file, possibly compressed (required, - for stdin)")
	out := flag.String("out", "", "specify output FASTA file (required, - for stdout)")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	src, err := mafio.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	dst, err := mafio.Create(*out)
	if err != nil {
		log.Fatal(err)
	}

	var seen fadedup.Seen
	err = fadedup.Dedup(dst, src, &seen)
	if err != nil {
		log.Fatal(err)
	}
	err = dst.Close()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d duplicate headers.\n", seen.Duplicates())
	fmt.Printf("%d unique headers had duplicates.\n", seen.Repeated())
	if *out != "-" {
		fmt.Printf("Cleaned file written to: %s\n", *out)
	}
}
