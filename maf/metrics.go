// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maf

import "github.com/biogo/biogo/alphabet"

// Gap is the alignment gap letter.
const Gap alphabet.Letter = '-'

// Metrics holds the quality measures of a pairwise block as percentages.
type Metrics struct {
	Identity   float64
	Continuity float64
	Coverage   float64
}

// Identity returns the percentage of columns without a gap in either
// sequence that hold the same letter, ignoring case. Only the columns
// shared by a and b are considered when their lengths differ.
func Identity(a, b alphabet.Letters) float64 {
	var matches, aligned int
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] == Gap || b[i] == Gap {
			continue
		}
		aligned++
		if fold(a[i]) == fold(b[i]) {
			matches++
		}
	}
	if aligned == 0 {
		return 0
	}
	return float64(matches) / float64(aligned) * 100
}

// Continuity returns the percentage of columns of a that are not a gap
// in either sequence. The column total is the length of a, even when b
// is shorter.
func Continuity(a, b alphabet.Letters) float64 {
	if len(a) == 0 {
		return 0
	}
	var aligned int
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != Gap && b[i] != Gap {
			aligned++
		}
	}
	return float64(aligned) / float64(len(a)) * 100
}

// Coverage returns the percentage of the shorter source sequence that is
// spanned by the shorter aligned region of x and y.
func Coverage(x, y SeqLine) float64 {
	shorter := min(x.SrcSize, y.SrcSize)
	if shorter == 0 {
		return 0
	}
	return float64(min(x.Size, y.Size)) / float64(shorter) * 100
}

func fold(l alphabet.Letter) alphabet.Letter {
	if 'A' <= l && l <= 'Z' {
		return l + 'a' - 'A'
	}
	return l
}
