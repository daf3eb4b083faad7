// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package leveldb

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcbranch/branchdb/engine"
	"github.com/stretchr/testify/require"
)

func TestSuiteLevelDB(t *testing.T) {
	engine.TestSuiteEngine(t, func() engine.Engine {
		dbPath := filepath.Join(t.TempDir(), "leveldb-testsuite")

		db, err := NewDB(dbPath, true)
		require.NoError(t, err, "failed to create leveldb")
		return db
	})
}

// TestNewDBMissing ensures opening a database that does not exist without the
// create flag fails.
func TestNewDBMissing(t *testing.T) {
	_, err := NewDB(filepath.Join(t.TempDir(), "missing"), false)
	require.Error(t, err)
}
