// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultQueryPrefix is the literal prefix of query gene identifiers.
const DefaultQueryPrefix = "gene_"

var (
	// DefaultQueryPattern matches DefaultQueryPrefix followed by digits.
	DefaultQueryPattern = QueryPattern(DefaultQueryPrefix)

	scorePattern = regexp.MustCompile(`score=(-?[0-9]+)`)
)

// QueryPattern returns a case-insensitive pattern matching the literal
// prefix followed by one or more digits.
func QueryPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `[0-9]+`)
}

// state is the position of the tokenizer relative to a block.
type state int

const (
	// outsideBlock is before any header or sequence line
	// of a block. Lines seen here are block preamble.
	outsideBlock state = iota
	// inHeader follows an "a" line.
	inHeader
	// inSequence follows an "s" line.
	inSequence
)

func (s state) String() string {
	switch s {
	case outsideBlock:
		return "outside-block"
	case inHeader:
		return "in-header"
	case inSequence:
		return "in-sequence"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// builder accumulates the lines of a single block.
type builder struct {
	query *regexp.Regexp

	state state
	raw   strings.Builder
	blk   Block
}

// add adds a line, including its line terminator, to the block being built.
// It returns true if the line closed the block.
func (b *builder) add(line []byte) (closed bool, err error) {
	if isBlank(line) {
		if b.raw.Len() == 0 {
			return false, nil
		}
		b.raw.Write(line)
		return true, nil
	}
	b.raw.Write(line)

	switch lineType(line) {
	case 'a':
		b.blk.headers++
		if b.blk.headers == 1 {
			b.blk.Header = true
			if m := scorePattern.FindSubmatch(line); m != nil {
				// The pattern guarantees a signed decimal, so only
				// overflow can fail here.
				b.blk.Score, err = strconv.Atoi(string(m[1]))
				if err != nil {
					return false, fmt.Errorf("%w: invalid score in line: %q: %v", ErrSyntax, bytes.TrimSpace(line), err)
				}
			}
		}
		if b.state == outsideBlock {
			b.state = inHeader
		}
	case 's':
		b.blk.seqs++
		if b.blk.seqs <= 2 {
			// Blocks with more sequence lines are not
			// pairwise, so their lines are never parsed.
			b.blk.lines = append(b.blk.lines, line)
		}
		switch b.state {
		case outsideBlock:
			// A sequence line without a header can not
			// provide the query identifier.
		case inHeader, inSequence:
			if b.blk.Query == "" && b.blk.Header {
				b.blk.Query = string(b.query.Find(sourceName(line)))
			}
		}
		b.state = inSequence
	}
	return false, nil
}

// sourceName returns the source name field of an "s" line,
// or nil if the line has no second field.
func sourceName(line []byte) []byte {
	i := bytes.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return nil
	}
	line = bytes.TrimLeftFunc(line[i:], unicode.IsSpace)
	if i = bytes.IndexFunc(line, unicode.IsSpace); i >= 0 {
		line = line[:i]
	}
	return line
}

// empty returns whether no line has been added since the last reset.
func (b *builder) empty() bool {
	return b.raw.Len() == 0
}

// finish returns the built block and resets the builder. The sequence
// lines of the returned block have not been parsed.
func (b *builder) finish() *Block {
	blk := b.blk
	blk.Raw = b.raw.String()
	b.state = outsideBlock
	b.raw.Reset()
	b.blk = Block{}
	return &blk
}

// lineType returns the record type of a MAF line, the byte of its
// first field if that field is a single byte, and zero otherwise.
func lineType(line []byte) byte {
	switch {
	case len(line) == 0:
		return 0
	case len(line) == 1:
		return line[0]
	}
	switch line[1] {
	case ' ', '\t', '\r', '\n':
		return line[0]
	}
	return 0
}

func isBlank(line []byte) bool {
	return len(bytes.TrimSpace(line)) == 0
}

// Reader reads alignment blocks from an io.Reader. Blocks are returned only
// when they have a header, a query identifier and are pairwise; all other
// blocks are skipped.
type Reader struct {
	r    *bufio.Reader
	b    builder
	line int
}

// NewReader returns a new Reader reading from r. Query identifiers are
// found using the query pattern, or DefaultQueryPattern if query is nil.
func NewReader(r io.Reader, query *regexp.Regexp) *Reader {
	if query == nil {
		query = DefaultQueryPattern
	}
	return &Reader{r: bufio.NewReader(r), b: builder{query: query}}
}

// Read returns the next eligible block. At the end of the stream it
// returns io.EOF. A block left open at the end of the stream is closed
// as if it had been followed by a blank line.
//
// The sequence lines of eligible blocks are parsed without retaining
// their aligned text, and a syntax error in either line is returned.
// The sequence lines of skipped blocks are not parsed.
func (r *Reader) Read() (*Block, error) {
	for {
		line, err := r.r.ReadBytes('\n')
		if len(line) != 0 {
			r.line++
			closed, perr := r.b.add(line)
			if perr != nil {
				return nil, fmt.Errorf("line %d: %w", r.line, perr)
			}
			if closed {
				blk, ok, perr := r.next()
				if perr != nil || ok {
					return blk, perr
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				return nil, err
			}
			if r.b.empty() {
				return nil, io.EOF
			}
			blk, ok, perr := r.next()
			if perr != nil || ok {
				return blk, perr
			}
			return nil, io.EOF
		}
	}
}

// next finishes the block being built and returns it if it is eligible.
func (r *Reader) next() (blk *Block, ok bool, err error) {
	blk = r.b.finish()
	if !eligible(blk) {
		return nil, false, nil
	}
	err = blk.parse(false)
	if err != nil {
		return nil, false, fmt.Errorf("block ending at line %d: %w", r.line, err)
	}
	return blk, true, nil
}

func eligible(b *Block) bool {
	return b.Header && b.Query != "" && b.IsPairwise()
}

// ParseBlock parses the text of a single block without applying the
// eligibility rules of Reader. Query identifiers are found using
// DefaultQueryPattern. The sequence lines of a pairwise block are
// parsed with their aligned text and a syntax error in either line
// is returned. Other blocks are returned without their sequence lines
// being parsed.
func ParseBlock(raw string) (*Block, error) {
	b := builder{query: DefaultQueryPattern}
	for len(raw) != 0 {
		var line string
		i := strings.IndexByte(raw, '\n')
		if i < 0 {
			line, raw = raw, ""
		} else {
			line, raw = raw[:i+1], raw[i+1:]
		}
		_, err := b.add([]byte(line))
		if err != nil {
			return nil, err
		}
	}
	blk := b.finish()
	err := blk.parse(true)
	if err != nil {
		return nil, err
	}
	return blk, nil
}

// SplitBlocks returns the text of each blank line delimited block read
// from r, without the delimiting blank lines.
func SplitBlocks(r io.Reader) ([]string, error) {
	var (
		blocks []string
		cur    strings.Builder
	)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) != 0 {
			if isBlank([]byte(line)) {
				if cur.Len() != 0 {
					blocks = append(blocks, cur.String())
					cur.Reset()
				}
			} else {
				cur.WriteString(line)
			}
		}
		if err != nil {
			if err != io.EOF {
				return blocks, err
			}
			break
		}
	}
	if cur.Len() != 0 {
		blocks = append(blocks, cur.String())
	}
	return blocks, nil
}
