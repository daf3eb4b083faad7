// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package engine defines the minimal key/value storage interface the branch
// set store is built on.  Implementations live in the leveldb and pebbledb
// sub packages.
package engine

import (
	"errors"
)

var (
	// ErrNotFound is returned by Snapshot.Get when the key does not exist.
	ErrNotFound = errors.New("engine: key not found")

	// ErrIterReleased is returned by Iterator.Error once the iterator was
	// released.
	ErrIterReleased = errors.New("engine: iterator released")
)

// Engine is an open key/value database.
type Engine interface {
	// Transaction starts a write batch.  Writes become visible once
	// Commit returns.
	Transaction() (Transaction, error)

	// Snapshot returns a consistent read-only view of the database.
	Snapshot() (Snapshot, error)

	Close() error
}

// Transaction is a batch of writes applied atomically by Commit.  Discard
// abandons the batch and is a no-op after Commit.
type Transaction interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
	Discard()
}

// Snapshot is a read-only view of the database at the time it was taken.
type Snapshot interface {
	// Get returns a copy of the value stored for key or ErrNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// NewIterator returns an iterator over the keys in r, positioned
	// before the first key.
	NewIterator(r *Range) Iterator

	Releaser
}

// Iterator walks the key/value pairs of a range in ascending key order.
type Iterator interface {
	// Next moves to the next pair and reports whether one exists.
	Next() bool

	// Key and Value return the current pair.  The returned slices are only
	// valid until the next call to Next.
	Key() []byte
	Value() []byte

	// Error returns any error encountered while iterating.  Exhausting the
	// range is not an error.
	Error() error

	Releaser
}

// Releaser releases the resources held by a snapshot or iterator.
type Releaser interface {
	Release()
}

// Range is a key range.  Start is inclusive and Limit exclusive; a nil Limit
// extends the range to the last key.
type Range struct {
	Start []byte
	Limit []byte
}

// BytesPrefix returns the range covering every key that starts with prefix.
func BytesPrefix(prefix []byte) *Range {
	var limit []byte
	for i := len(prefix) - 1; i >= 0; i-- {
		c := prefix[i]
		if c < 0xff {
			limit = make([]byte, i+1)
			copy(limit, prefix)
			limit[i] = c + 1
			break
		}
	}
	return &Range{Start: prefix, Limit: limit}
}
