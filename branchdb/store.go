// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchdb

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcbranch/branchdb/engine"
	"github.com/btcsuite/btcbranch/branchdb/engine/leveldb"
	"github.com/btcsuite/btcbranch/branchdb/engine/pebbledb"
	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/btcsuite/btcd/btcutil"
)

const (
	// DefaultCacheSize is the number of decoded branch sets kept in memory
	// when no size is given.
	DefaultCacheSize = 256

	// scriptHashSize is the size of the HASH160 keying every set.
	scriptHashSize = 20
)

// Supported database backends.
const (
	LevelDB  = "leveldb"
	PebbleDB = "pebble"
)

// setKeyPrefix prefixes the key of every stored branch set.
var setKeyPrefix = []byte("bset")

// SupportedDBs returns the database backends Open accepts.
func SupportedDBs() []string {
	return []string{LevelDB, PebbleDB}
}

// Store persists sealed branch sets keyed by the hash of their combined
// script so a wallet can rebuild the redeem script of a pay-to-script-hash
// output it is asked to spend.  It is safe for concurrent access.
type Store struct {
	db    engine.Engine
	cache *setCache
}

// New returns a store on top of db caching up to cacheSize decoded sets.
func New(db engine.Engine, cacheSize uint) *Store {
	if cacheSize == 0 {
		cacheSize = DefaultCacheSize
	}
	return &Store{
		db:    db,
		cache: newSetCache(cacheSize),
	}
}

// Open opens or creates the database of type dbType at dbPath.
func Open(dbType, dbPath string, create bool) (*Store, error) {
	var (
		db  engine.Engine
		err error
	)
	switch dbType {
	case LevelDB:
		db, err = leveldb.NewDB(dbPath, create)
	case PebbleDB:
		db, err = pebbledb.NewDB(dbPath, create, 0)
	default:
		str := fmt.Sprintf("unsupported database type %q (supported: %v)",
			dbType, SupportedDBs())
		return nil, makeError(ErrUnknownDBType, str, nil)
	}
	if err != nil {
		str := fmt.Sprintf("unable to open %s database at %s", dbType,
			dbPath)
		return nil, makeError(ErrDriver, str, err)
	}

	log.Debugf("Opened %s branch set database at %s", dbType, dbPath)
	return New(db, 0), nil
}

// setKey returns the database key of the set with the given script hash.
func setKey(scriptHash []byte) []byte {
	key := make([]byte, 0, len(setKeyPrefix)+len(scriptHash))
	key = append(key, setKeyPrefix...)
	return append(key, scriptHash...)
}

// PutSet stores set under the hash of its combined script.  Storing a set
// that already exists overwrites it with identical content.
func (s *Store) PutSet(set *branchscript.BranchSet) error {
	serialized, err := serializeSet(set)
	if err != nil {
		return err
	}

	scriptHash := set.ScriptHash()
	tx, err := s.db.Transaction()
	if err != nil {
		return makeError(ErrDriver, "unable to start transaction", err)
	}
	defer tx.Discard()

	if err := tx.Put(setKey(scriptHash), serialized); err != nil {
		return makeError(ErrDriver, "unable to store branch set", err)
	}
	if err := tx.Commit(); err != nil {
		return makeError(ErrDriver, "unable to commit branch set", err)
	}

	s.cache.add(string(scriptHash), set)
	log.Debugf("Stored branch set %x with %d branches", scriptHash,
		set.NumBranches())
	return nil
}

// FetchSet returns the set whose combined script hashes to scriptHash.
func (s *Store) FetchSet(scriptHash []byte) (*branchscript.BranchSet, error) {
	if cached, ok := s.cache.lookup(string(scriptHash)); ok {
		return cached, nil
	}

	snap, err := s.db.Snapshot()
	if err != nil {
		return nil, makeError(ErrDriver, "unable to open snapshot", err)
	}
	defer snap.Release()

	serialized, err := snap.Get(setKey(scriptHash))
	if errors.Is(err, engine.ErrNotFound) {
		str := fmt.Sprintf("no branch set for script hash %x", scriptHash)
		return nil, makeError(ErrSetNotFound, str, nil)
	}
	if err != nil {
		return nil, makeError(ErrDriver, "unable to load branch set", err)
	}

	set, err := decodeSet(scriptHash, serialized)
	if err != nil {
		return nil, err
	}
	s.cache.add(string(scriptHash), set)
	return set, nil
}

// decodeSet deserializes a stored set and ensures it still hashes to the key
// it was found under.
func decodeSet(scriptHash, serialized []byte) (*branchscript.BranchSet, error) {
	set, err := deserializeSet(serialized)
	if err != nil {
		str := fmt.Sprintf("unable to decode branch set %x", scriptHash)
		return nil, makeError(ErrCorruptSet, str, err)
	}
	if !bytes.Equal(set.ScriptHash(), scriptHash) {
		str := fmt.Sprintf("branch set stored under %x hashes to %x",
			scriptHash, set.ScriptHash())
		return nil, makeError(ErrCorruptSet, str, nil)
	}
	return set, nil
}

// FetchByAddress returns the set paid to by the pay-to-script-hash address.
func (s *Store) FetchByAddress(addr btcutil.Address) (*branchscript.BranchSet, error) {
	p2sh, ok := addr.(*btcutil.AddressScriptHash)
	if !ok {
		str := fmt.Sprintf("address %s is not a pay-to-script-hash address",
			addr.EncodeAddress())
		return nil, makeError(ErrNotScriptHash, str, nil)
	}
	return s.FetchSet(p2sh.ScriptAddress())
}

// HasSet reports whether a set is stored under scriptHash.
func (s *Store) HasSet(scriptHash []byte) (bool, error) {
	if s.cache.contains(string(scriptHash)) {
		return true, nil
	}

	snap, err := s.db.Snapshot()
	if err != nil {
		return false, makeError(ErrDriver, "unable to open snapshot", err)
	}
	defer snap.Release()

	has, err := snap.Has(setKey(scriptHash))
	if err != nil {
		return false, makeError(ErrDriver, "unable to query branch set", err)
	}
	return has, nil
}

// DeleteSet removes the set stored under scriptHash.  ErrSetNotFound is
// returned when there is none.
func (s *Store) DeleteSet(scriptHash []byte) error {
	has, err := s.HasSet(scriptHash)
	if err != nil {
		return err
	}
	if !has {
		str := fmt.Sprintf("no branch set for script hash %x", scriptHash)
		return makeError(ErrSetNotFound, str, nil)
	}

	tx, err := s.db.Transaction()
	if err != nil {
		return makeError(ErrDriver, "unable to start transaction", err)
	}
	defer tx.Discard()

	if err := tx.Delete(setKey(scriptHash)); err != nil {
		return makeError(ErrDriver, "unable to delete branch set", err)
	}
	if err := tx.Commit(); err != nil {
		return makeError(ErrDriver, "unable to commit deletion", err)
	}

	s.cache.delete(string(scriptHash))
	log.Debugf("Deleted branch set %x", scriptHash)
	return nil
}

// ForEachSet calls fn with every stored set in ascending script hash order.
// Iteration stops at the first error returned by fn, which is passed back to
// the caller.
func (s *Store) ForEachSet(fn func(scriptHash []byte, set *branchscript.BranchSet) error) error {
	snap, err := s.db.Snapshot()
	if err != nil {
		return makeError(ErrDriver, "unable to open snapshot", err)
	}
	defer snap.Release()

	iter := snap.NewIterator(engine.BytesPrefix(setKeyPrefix))
	defer iter.Release()

	for iter.Next() {
		key := iter.Key()
		if len(key) != len(setKeyPrefix)+scriptHashSize {
			log.Warnf("Skipping malformed branch set key %s",
				hex.EncodeToString(key))
			continue
		}
		scriptHash := append([]byte(nil), key[len(setKeyPrefix):]...)

		set, err := decodeSet(scriptHash, iter.Value())
		if err != nil {
			return err
		}
		if err := fn(scriptHash, set); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return makeError(ErrDriver, "unable to iterate branch sets", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
