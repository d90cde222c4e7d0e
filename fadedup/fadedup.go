// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fadedup removes FASTA records with repeated headers.
package fadedup

import (
	"bufio"
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// Width is the line width of written sequence data.
const Width = 60

// Seen records the FASTA headers that have been written and the number
// of records dropped for each header. The zero value is ready to use.
// A Seen may be shared across calls to Dedup to remove duplicates
// across files.
type Seen struct {
	kept map[string]bool
	dups map[string]int
	n    int
}

// Add records header and returns whether it had not been seen before.
func (s *Seen) Add(header string) bool {
	if s.kept == nil {
		s.kept = make(map[string]bool)
		s.dups = make(map[string]int)
	}
	if s.kept[header] {
		s.dups[header]++
		s.n++
		return false
	}
	s.kept[header] = true
	return true
}

// Kept returns the number of distinct headers seen.
func (s *Seen) Kept() int { return len(s.kept) }

// Duplicates returns the total number of dropped records.
func (s *Seen) Duplicates() int { return s.n }

// Repeated returns the number of distinct headers that had records dropped.
func (s *Seen) Repeated() int { return len(s.dups) }

// Count returns the number of records dropped for header.
func (s *Seen) Count(header string) int { return s.dups[header] }

// Header returns the FASTA header of s, without the leading '>'. The ID
// and description are joined by a single space whatever separated them
// in the input.
func Header(s *linear.Seq) string {
	if s.Desc == "" {
		return s.ID
	}
	return s.ID + " " + s.Desc
}

// Dedup copies the FASTA records in src to dst, keeping only the first
// record for each header not already present in seen.
func Dedup(dst io.Writer, src io.Reader, seen *Seen) error {
	bw := bufio.NewWriter(dst)
	w := fasta.NewWriter(bw, Width)
	sc := seqio.NewScanner(fasta.NewReader(src, linear.NewSeq("", nil, alphabet.DNAredundant)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		if !seen.Add(Header(s)) {
			continue
		}
		_, err := w.Write(s)
		if err != nil {
			return fmt.Errorf("fadedup: failed to write %q: %w", s.ID, err)
		}
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("fadedup: error during sequence read: %w", err)
	}
	return bw.Flush()
}
