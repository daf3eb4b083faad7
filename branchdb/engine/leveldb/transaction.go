// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
)

// Transaction wraps a goleveldb transaction.
type Transaction struct {
	*leveldb.Transaction
	done bool
}

// Put stores value under key.
func (t *Transaction) Put(key, value []byte) error {
	return t.Transaction.Put(key, value, nil)
}

// Delete removes key.
func (t *Transaction) Delete(key []byte) error {
	return t.Transaction.Delete(key, nil)
}

// Discard abandons the transaction unless it was committed.
func (t *Transaction) Discard() {
	if !t.done {
		t.done = true
		t.Transaction.Discard()
	}
}

// Commit applies the transaction.
func (t *Transaction) Commit() error {
	t.done = true
	return t.Transaction.Commit()
}
