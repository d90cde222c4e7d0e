// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package maf

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// Writer writes block text to an io.Writer, terminating each block with
// a single blank line.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a new Writer writing to w. Flush must be called
// after the last block is written.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes the block text raw with its trailing white space replaced by
// a blank line terminator. Empty blocks are not written.
func (w *Writer) Write(raw string) error {
	raw = strings.TrimRightFunc(raw, unicode.IsSpace)
	if raw == "" {
		return nil
	}
	_, err := w.w.WriteString(raw)
	if err != nil {
		return err
	}
	_, err = w.w.WriteString("\n\n")
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
