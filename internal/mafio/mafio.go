// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mafio provides opening and creation of possibly compressed
// alignment files.
package mafio

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/shenwei356/xopen"
)

// Open opens the file at path for reading, decompressing it if it is
// compressed. If path is "-", standard input is read.
func Open(path string) (io.ReadCloser, error) {
	r, err := xopen.Ropen(path)
	if err != nil {
		return nil, fmt.Errorf("mafio: open %s: %w", path, err)
	}
	return r, nil
}

// Create creates the file at path for writing. If path has a ".gz" or
// ".bgz" suffix, data is BGZF compressed. If path is "-", data is written
// to standard output.
func Create(path string) (io.WriteCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdout
	} else {
		var err error
		f, err = os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("mafio: create %s: %w", path, err)
		}
	}
	w := &file{path: path, f: f}
	if strings.HasSuffix(path, ".gz") || strings.HasSuffix(path, ".bgz") {
		w.bgzf = bgzf.NewWriter(f, runtime.GOMAXPROCS(0))
	}
	return w, nil
}

type file struct {
	path string
	f    *os.File
	bgzf *bgzf.Writer
}

func (w *file) Write(b []byte) (int, error) {
	var (
		n   int
		err error
	)
	if w.bgzf != nil {
		n, err = w.bgzf.Write(b)
	} else {
		n, err = w.f.Write(b)
	}
	if err != nil {
		return n, fmt.Errorf("mafio: write %s: %w", w.path, err)
	}
	return n, nil
}

// Close flushes any compressed data and closes the underlying
// file, unless it is standard output.
func (w *file) Close() error {
	if w.bgzf != nil {
		err := w.bgzf.Close()
		if err != nil {
			return fmt.Errorf("mafio: close %s: %w", w.path, err)
		}
	}
	if w.f == os.Stdout {
		return nil
	}
	err := w.f.Close()
	if err != nil {
		return fmt.Errorf("mafio: close %s: %w", w.path, err)
	}
	return nil
}
