// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchdb

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	// setVersion is the serialization version of stored branch sets.
	setVersion = 1

	// maxStoredBranches bounds the branch count read back from disk.  A
	// combined script can not exceed the maximum script size, and every
	// branch takes at least one byte of it.
	maxStoredBranches = txscript.MaxScriptSize
)

// serializeSet encodes the branches of set.  The combined script is not stored
// since it is a pure function of the branches.
//
// The serialized format is:
//
//	<version><num branches>[<kind><script len><script>]...
//
//	Field          Type     Size
//	version        uint8    1
//	num branches   VarInt   variable
//	kind           uint8    1
//	script         VarBytes variable
func serializeSet(set *branchscript.BranchSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(setVersion)

	branches := set.Branches()
	if err := wire.WriteVarInt(&buf, 0, uint64(len(branches))); err != nil {
		return nil, err
	}
	for _, branch := range branches {
		buf.WriteByte(byte(branch.Kind))
		if err := wire.WriteVarBytes(&buf, 0, branch.Script); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// deserializeSet decodes a branch set serialized by serializeSet and rebuilds
// its combined script.
func deserializeSet(serialized []byte) (*branchscript.BranchSet, error) {
	r := bytes.NewReader(serialized)
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != setVersion {
		return nil, fmt.Errorf("unsupported branch set version %d", version)
	}

	count, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}
	if count == 0 || count > maxStoredBranches {
		return nil, fmt.Errorf("invalid branch count %d", count)
	}

	branches := make([]branchscript.Branch, 0, count)
	for i := uint64(0); i < count; i++ {
		kind, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		script, err := wire.ReadVarBytes(r, 0, txscript.MaxScriptSize,
			"branch script")
		if err != nil {
			return nil, err
		}
		branches = append(branches, branchscript.Branch{
			Kind:   branchscript.BranchKind(kind),
			Script: script,
		})
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes", r.Len())
	}

	return branchscript.NewBranchSet(branches)
}
