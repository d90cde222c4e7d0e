// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package store provides an on-disk store of alignment block scores
// ordered for per-query ranking.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"modernc.org/kv"
)

// GroupByQueryOrderScore is a kv compare function, ordering by query name,
// descending score and block ordinal.
func GroupByQueryOrderScore(x, y []byte) int {
	if bytes.Equal(x, y) {
		return 0
	}

	kx := UnmarshalScoreKey(x)
	ky := UnmarshalScoreKey(y)

	// Group blocks of the same query.
	switch {
	case kx.Query < ky.Query:
		return -1
	case kx.Query > ky.Query:
		return 1
	}

	// Higher scoring blocks first.
	switch {
	case kx.Score > ky.Score:
		return -1
	case kx.Score < ky.Score:
		return 1
	}

	// Ensure key uniqueness.
	switch {
	case kx.Ordinal < ky.Ordinal:
		return -1
	case kx.Ordinal > ky.Ordinal:
		return 1
	}

	panic("unreachable")
}

// ScoreKey is the key of a block score record.
type ScoreKey struct {
	Query   string
	Score   int64
	Ordinal int64
}

var order = binary.BigEndian

// MarshalScoreKey returns the byte encoding of k.
func MarshalScoreKey(k ScoreKey) []byte {
	var (
		buf bytes.Buffer
		b   [8]byte
	)
	order.PutUint64(b[:], uint64(len(k.Query)))
	buf.Write(b[:])
	buf.WriteString(k.Query)
	// Flip the sign bit so that the encoding
	// sorts bytewise in numerical order.
	order.PutUint64(b[:], uint64(k.Score)^(1<<63))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(k.Ordinal))
	buf.Write(b[:])
	return buf.Bytes()
}

// UnmarshalScoreKey returns the ScoreKey encoded in data.
func UnmarshalScoreKey(data []byte) ScoreKey {
	var k ScoreKey
	n64 := binary.Size(uint64(0))
	n := order.Uint64(data[:n64])
	data = data[n64:]
	k.Query = string(data[:n])
	data = data[n:]
	k.Score = int64(order.Uint64(data[:n64]) ^ (1 << 63))
	data = data[n64:]
	k.Ordinal = int64(order.Uint64(data[:n64]))
	return k
}

// Store is a kv backed collection of block scores.
type Store struct {
	db *kv.DB
	n  int64
}

// Create creates a new Store at path. It is an error
// if path already exists.
func Create(path string) (*Store, error) {
	db, err := kv.Create(path, &kv.Options{Compare: GroupByQueryOrderScore})
	if err != nil {
		return nil, fmt.Errorf("store: create %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Open opens an existing Store at path. Scores added to the
// opened Store continue the ordinals of those already held.
func Open(path string) (*Store, error) {
	db, err := kv.Open(path, &kv.Options{Compare: GroupByQueryOrderScore})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	s := &Store{db: db}
	err = s.Do(func(k ScoreKey) error {
		if k.Ordinal >= s.n {
			s.n = k.Ordinal + 1
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return s, nil
}

// Add records the score of the next block for query.
// The block's ordinal is its position in the sequence of Add calls.
func (s *Store) Add(query string, score int) error {
	k := MarshalScoreKey(ScoreKey{Query: query, Score: int64(score), Ordinal: s.n})
	err := s.db.Set(k, nil)
	if err != nil {
		return err
	}
	s.n++
	return nil
}

// Len returns the number of scores held by the Store.
func (s *Store) Len() int64 { return s.n }

// Do calls fn on each key in the store in key order. If fn returns
// an error, iteration stops and the error is returned.
func (s *Store) Do(fn func(ScoreKey) error) error {
	it, err := s.db.SeekFirst()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	for {
		k, _, err := it.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		err = fn(UnmarshalScoreKey(k))
		if err != nil {
			return err
		}
	}
}

// Thresholds returns the n-th highest score recorded for each query,
// or the lowest if fewer than n scores were recorded for the query or
// n is less than one.
func (s *Store) Thresholds(n int) (map[string]int, error) {
	thresh := make(map[string]int)
	var (
		query string
		rank  int
	)
	err := s.Do(func(k ScoreKey) error {
		if k.Query != query {
			query = k.Query
			rank = 0
		}
		rank++
		// Keys arrive in descending score order within
		// each query, so the last assignment is the n-th
		// score or the group minimum.
		if n < 1 || rank <= n {
			thresh[k.Query] = int(k.Score)
		}
		return nil
	})
	return thresh, err
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}
