// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"errors"

	"github.com/btcsuite/btcbranch/branchdb/engine"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Snapshot wraps a goleveldb snapshot.
type Snapshot struct {
	*leveldb.Snapshot
}

// Has reports whether key exists in the snapshot.
func (s *Snapshot) Has(key []byte) (bool, error) {
	return s.Snapshot.Has(key, nil)
}

// Get returns the value stored for key.
func (s *Snapshot) Get(key []byte) ([]byte, error) {
	val, err := s.Snapshot.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, engine.ErrNotFound
	}
	return val, err
}

// Release releases the snapshot.
func (s *Snapshot) Release() {
	s.Snapshot.Release()
}

// NewIterator returns an iterator over r.
func (s *Snapshot) NewIterator(r *engine.Range) engine.Iterator {
	return s.Snapshot.NewIterator(&util.Range{
		Start: r.Start,
		Limit: r.Limit,
	}, nil)
}
