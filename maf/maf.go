// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package maf provides types and functions for reading, measuring and
// writing pairwise alignment blocks in the multiple alignment format.
//
// Only pairwise blocks, a single "a" header line followed by exactly two
// "s" sequence lines, are considered well formed. Blocks are delimited by
// one or more blank lines and their original text is retained so that
// they can be written back out unaltered.
package maf

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq"
)

// ErrSyntax is returned, wrapped with the offending line, when a sequence
// line cannot be interpreted.
var ErrSyntax = errors.New("maf: syntax error")

// SeqLine is a single "s" line of an alignment block.
type SeqLine struct {
	Src     string
	Start   int
	Size    int
	Strand  seq.Strand
	SrcSize int
	Text    alphabet.Letters
}

// ParseSeqLine parses an "s" line. Fields beyond the aligned text are
// ignored.
func ParseSeqLine(line []byte) (SeqLine, error) {
	return parseSeqLine(line, true)
}

// parseSeqLine parses an "s" line, retaining a copy of the aligned
// text only if text is true.
func parseSeqLine(line []byte, text bool) (SeqLine, error) {
	// field indices for an s line.
	const (
		marker = iota
		src
		start
		size
		strand
		srcSize
		seqText
		numFields
	)

	f := bytes.Fields(line)
	if len(f) < numFields || string(f[marker]) != "s" {
		return SeqLine{}, fmt.Errorf("%w: unexpected number of fields in line: %q", ErrSyntax, abbrev(line))
	}

	s := SeqLine{Src: string(f[src])}
	if text {
		s.Text = alphabet.BytesToLetters(append([]byte(nil), f[seqText]...))
	}
	var err error
	s.Start, err = strconv.Atoi(string(f[start]))
	if err != nil {
		return SeqLine{}, fmt.Errorf("%w: error in line: %q: %v", ErrSyntax, abbrev(line), err)
	}
	s.Size, err = strconv.Atoi(string(f[size]))
	if err != nil {
		return SeqLine{}, fmt.Errorf("%w: error in line: %q: %v", ErrSyntax, abbrev(line), err)
	}
	s.SrcSize, err = strconv.Atoi(string(f[srcSize]))
	if err != nil {
		return SeqLine{}, fmt.Errorf("%w: error in line: %q: %v", ErrSyntax, abbrev(line), err)
	}
	switch string(f[strand]) {
	case "+":
		s.Strand = seq.Plus
	case "-":
		s.Strand = seq.Minus
	default:
		s.Strand = seq.None
	}
	return s, nil
}

// abbrev returns line truncated for inclusion in an error message.
func abbrev(line []byte) []byte {
	const n = 80
	if len(line) <= n {
		return line
	}
	return append(line[:n:n], "..."...)
}

// Block is an alignment block.
type Block struct {
	// Raw is the verbatim text of the block including any
	// leading comment lines and the terminating blank line.
	Raw string

	// Score is the value of the header's score= field,
	// zero if absent.
	Score int

	// Query is the first query identifier found in the
	// source names of the block's sequence lines.
	Query string

	// Header indicates that the block has an "a" line.
	Header bool

	// Seqs holds the parsed sequence lines of a pairwise
	// block in input order. It is nil for other blocks.
	// Blocks returned by a Reader do not retain the aligned
	// text of their sequence lines.
	Seqs []SeqLine

	headers int
	seqs    int
	text    bool

	// lines holds the first two unparsed
	// sequence lines until parse is called.
	lines [][]byte
}

// IsPairwise returns whether b is a well formed pairwise block:
// exactly two sequence lines and no more than one header.
func (b *Block) IsPairwise() bool {
	return b.seqs == 2 && b.headers <= 1
}

// parse parses the sequence lines of a pairwise block into Seqs,
// retaining the aligned text only if text is true. The sequence
// lines of other blocks are discarded without being parsed.
func (b *Block) parse(text bool) error {
	lines := b.lines
	b.lines = nil
	if !b.IsPairwise() {
		return nil
	}
	b.Seqs = make([]SeqLine, len(lines))
	for i, l := range lines {
		var err error
		b.Seqs[i], err = parseSeqLine(l, text)
		if err != nil {
			b.Seqs = nil
			return err
		}
	}
	b.text = text
	return nil
}

// Metrics returns the identity, continuity and coverage of b.
// If b is not pairwise or was returned by a Reader, the zero
// Metrics and false are returned.
func (b *Block) Metrics() (Metrics, bool) {
	if !b.IsPairwise() || !b.text {
		return Metrics{}, false
	}
	x, y := b.Seqs[0], b.Seqs[1]
	return Metrics{
		Identity:   Identity(x.Text, y.Text),
		Continuity: Continuity(x.Text, y.Text),
		Coverage:   Coverage(x, y),
	}, true
}
