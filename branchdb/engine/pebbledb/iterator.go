// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pebbledb

import (
	"github.com/btcsuite/btcbranch/branchdb/engine"
	"github.com/cockroachdb/pebble"
)

// Iterator adapts a pebble iterator to the Next style iteration of the engine
// interface.  The first call to Next positions it on the lower bound.
type Iterator struct {
	*pebble.Iterator
	started  bool
	released bool
	err      error
}

// Next moves to the next key in the range.
func (i *Iterator) Next() bool {
	if i.Iterator == nil || i.released {
		return false
	}
	if !i.started {
		i.started = true
		return i.Iterator.First()
	}
	return i.Iterator.Next()
}

// Key returns the current key or nil when the iterator is not positioned.
func (i *Iterator) Key() []byte {
	if i.Iterator == nil || i.released || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Key()
}

// Value returns the current value or nil when the iterator is not
// positioned.
func (i *Iterator) Value() []byte {
	if i.Iterator == nil || i.released || !i.Iterator.Valid() {
		return nil
	}
	return i.Iterator.Value()
}

// Release closes the iterator.  It is safe to call more than once.
func (i *Iterator) Release() {
	if i.released {
		return
	}
	i.released = true
	if i.Iterator != nil {
		i.err = i.Iterator.Close()
	}
}

// Error returns the error that stopped the iteration, if any.
func (i *Iterator) Error() error {
	if i.err != nil {
		return i.err
	}
	if i.released {
		return engine.ErrIterReleased
	}
	return i.Iterator.Error()
}
