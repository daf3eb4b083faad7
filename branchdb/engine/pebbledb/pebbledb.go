// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pebbledb implements the storage engine on top of pebble.
package pebbledb

import (
	"errors"
	"sync/atomic"

	"github.com/btcsuite/btcbranch/branchdb/engine"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
)

var (
	ErrDbClosed         = errors.New("pebbledb: closed")
	ErrTxClosed         = errors.New("pebbledb: transaction already closed")
	ErrSnapshotReleased = errors.New("pebbledb: snapshot released")
)

// DefaultCache is the block cache size in MiB used when none is given.  Branch
// sets are small and rarely read, so it is far below what a chain index uses.
const DefaultCache = 8

// NewDB opens the pebble database at dbPath with a block cache of cache MiB.
// When create is set the database must not exist yet.
func NewDB(dbPath string, create bool, cache int) (engine.Engine, error) {
	if cache <= 0 {
		cache = DefaultCache
	}

	blockCache := pebble.NewCache(int64(cache) * 1024 * 1024)
	defer blockCache.Unref()

	opts := &pebble.Options{
		Cache:         blockCache,
		ErrorIfExists: create,
		Levels: []pebble.LevelOptions{
			{TargetFileSize: 2 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
			{TargetFileSize: 4 * 1024 * 1024, FilterPolicy: bloom.FilterPolicy(10)},
		},
	}
	pdb, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, err
	}

	return &DB{DB: pdb}, nil
}

// DB wraps a pebble database.
type DB struct {
	*pebble.DB

	closed atomic.Bool
}

// Transaction starts a write batch.
func (d *DB) Transaction() (engine.Transaction, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &Transaction{Batch: d.DB.NewBatch()}, nil
}

// Snapshot returns a point in time view of the database.
func (d *DB) Snapshot() (engine.Snapshot, error) {
	if d.closed.Load() {
		return nil, ErrDbClosed
	}
	return &Snapshot{Snapshot: d.DB.NewSnapshot()}, nil
}

// Close closes the database.  Closing twice returns ErrDbClosed.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return ErrDbClosed
	}
	return d.DB.Close()
}
