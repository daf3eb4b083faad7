// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSuiteEngine runs the behavior every engine implementation must provide
// against engines returned by newEngine.  Each subtest opens its own engine.
func TestSuiteEngine(t *testing.T, newEngine func() Engine) {
	t.Run("CommitVisibility", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		tx, err := db.Transaction()
		require.NoError(t, err)

		key, value := []byte("bset-a"), []byte{0x01, 0x02}
		require.NoError(t, tx.Put(key, value))

		// Uncommitted writes are not visible.
		snap, err := db.Snapshot()
		require.NoError(t, err)
		has, err := snap.Has(key)
		require.NoError(t, err)
		require.False(t, has)
		got, err := snap.Get(key)
		require.ErrorIs(t, err, ErrNotFound)
		require.Nil(t, got)
		snap.Release()

		require.NoError(t, tx.Commit())
		tx.Discard()

		snap, err = db.Snapshot()
		require.NoError(t, err)
		defer snap.Release()
		got, err = snap.Get(key)
		require.NoError(t, err)
		require.Equal(t, value, got)

		// The returned value is a copy.
		got[0] = 0xff
		again, err := snap.Get(key)
		require.NoError(t, err)
		require.Equal(t, value, again)
	})

	t.Run("SnapshotIsolation", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		put := func(k, v string) {
			tx, err := db.Transaction()
			require.NoError(t, err)
			require.NoError(t, tx.Put([]byte(k), []byte(v)))
			require.NoError(t, tx.Commit())
		}
		put("key", "old")

		snap, err := db.Snapshot()
		require.NoError(t, err)
		defer snap.Release()

		put("key", "new")
		tx, err := db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("other"), []byte("x")))
		require.NoError(t, tx.Commit())

		got, err := snap.Get([]byte("key"))
		require.NoError(t, err)
		require.Equal(t, []byte("old"), got)
		has, err := snap.Has([]byte("other"))
		require.NoError(t, err)
		require.False(t, has)
	})

	t.Run("Delete", func(t *testing.T) {
		db := newEngine()
		defer db.Close()

		tx, err := db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Put([]byte("key"), []byte("value")))
		require.NoError(t, tx.Commit())

		tx, err = db.Transaction()
		require.NoError(t, err)
		require.NoError(t, tx.Delete([]byte("key")))
		require.NoError(t, tx.Commit())

		snap, err := db.Snapshot()
		require.NoError(t, err)
		defer snap.Release()
		_, err = snap.Get([]byte("key"))
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Iterator", func(t *testing.T) {
		kvs := map[string]string{
			"bset\x01": "one", "bset\x02": "two", "bset\xff": "max",
			"bsfx": "after", "bsea": "before",
		}
		tests := []struct {
			name string
			r    *Range
			want [][2]string
		}{{
			name: "prefix",
			r:    BytesPrefix([]byte("bset")),
			want: [][2]string{
				{"bset\x01", "one"}, {"bset\x02", "two"},
				{"bset\xff", "max"},
			},
		}, {
			name: "bounded",
			r:    &Range{Start: []byte("bset\x02"), Limit: []byte("bset\xff")},
			want: [][2]string{{"bset\x02", "two"}},
		}, {
			name: "empty",
			r:    &Range{Start: []byte("bset\x03"), Limit: []byte("bset\x04")},
		}, {
			name: "unbounded",
			r:    &Range{},
			want: [][2]string{
				{"bsea", "before"}, {"bset\x01", "one"},
				{"bset\x02", "two"}, {"bset\xff", "max"},
				{"bsfx", "after"},
			},
		}}

		db := newEngine()
		defer db.Close()

		tx, err := db.Transaction()
		require.NoError(t, err)
		for k, v := range kvs {
			require.NoError(t, tx.Put([]byte(k), []byte(v)))
		}
		require.NoError(t, tx.Commit())

		snap, err := db.Snapshot()
		require.NoError(t, err)
		defer snap.Release()

		for _, test := range tests {
			var got [][2]string
			iter := snap.NewIterator(test.r)
			for iter.Next() {
				got = append(got, [2]string{
					string(iter.Key()), string(iter.Value()),
				})
			}
			require.NoError(t, iter.Error(), test.name)
			iter.Release()
			iter.Release()
			require.Equal(t, test.want, got, test.name)
		}
	})

	t.Run("Release", func(t *testing.T) {
		db := newEngine()

		tx, err := db.Transaction()
		require.NoError(t, err)
		tx.Discard()
		tx.Discard()
		require.Error(t, tx.Commit())

		snap, err := db.Snapshot()
		require.NoError(t, err)
		snap.Release()
		snap.Release()
		_, err = snap.Get([]byte("key"))
		require.Error(t, err)

		require.NoError(t, db.Close())
	})
}
