// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// BranchSet is a sealed, ordered set of branches together with the combined
// script folded from them.  The index of a branch is its position in the set.
// A BranchSet is immutable and safe for concurrent use.
type BranchSet struct {
	branches []Branch
	shape    *Shape
	script   []byte
}

// NewBranchSet folds the passed branches into a sealed set.  The branch
// scripts are copied so later changes by the caller have no effect.
func NewBranchSet(branches []Branch) (*BranchSet, error) {
	shape, err := NewShape(len(branches))
	if err != nil {
		return nil, err
	}

	owned := make([]Branch, len(branches))
	scripts := make([][]byte, len(branches))
	for i, b := range branches {
		script := make([]byte, len(b.Script))
		copy(script, b.Script)
		owned[i] = Branch{Kind: b.Kind, Script: script}
		scripts[i] = script
	}

	combined, err := shape.Fold(scripts)
	if err != nil {
		return nil, err
	}

	if len(combined) > txscript.MaxScriptElementSize {
		log.Warnf("Combined script of %d branches is %d bytes which "+
			"exceeds the %d byte redeem script push limit", len(branches),
			len(combined), txscript.MaxScriptElementSize)
	}

	log.Tracef("Folded branch set: %v", newLogClosure(func() string {
		disasm, _ := txscript.DisasmString(combined)
		return disasm
	}))

	return &BranchSet{
		branches: owned,
		shape:    shape,
		script:   combined,
	}, nil
}

// NumBranches returns the number of branches in the set.
func (s *BranchSet) NumBranches() int {
	return len(s.branches)
}

// Branch returns the branch at index i.
func (s *BranchSet) Branch(i int) (Branch, error) {
	if i < 0 || i >= len(s.branches) {
		str := fmt.Sprintf("branch index %d out of range for %d "+
			"branches", i, len(s.branches))
		return Branch{}, branchError(ErrInvalidBranchIndex, str)
	}

	b := s.branches[i]
	return Branch{Kind: b.Kind, Script: copyBytes(b.Script)}, nil
}

// Branches returns a copy of all branches in index order.
func (s *BranchSet) Branches() []Branch {
	branches := make([]Branch, len(s.branches))
	for i, b := range s.branches {
		branches[i] = Branch{Kind: b.Kind, Script: copyBytes(b.Script)}
	}
	return branches
}

// Shape returns the nesting shape the combined script was folded with.
func (s *BranchSet) Shape() *Shape {
	return s.shape
}

// Script returns a copy of the combined script.
func (s *BranchSet) Script() []byte {
	return copyBytes(s.script)
}

// ScriptHash returns the Hash160 of the combined script, which is what a
// pay-to-script-hash output commits to.
func (s *BranchSet) ScriptHash() []byte {
	return btcutil.Hash160(s.script)
}

// Address returns the pay-to-script-hash address of the combined script.
func (s *BranchSet) Address(params *chaincfg.Params) (*btcutil.AddressScriptHash, error) {
	return btcutil.NewAddressScriptHashFromHash(s.ScriptHash(), params)
}

// PkScript returns the pay-to-script-hash output script committing to the
// combined script.
func (s *BranchSet) PkScript() ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(s.ScriptHash()).
		AddOp(txscript.OP_EQUAL).
		Script()
}

// PathFor returns the decisions that route execution of the combined script
// to branch i.
func (s *BranchSet) PathFor(i int) ([]bool, error) {
	return s.shape.Path(i)
}

// matchesScript reports whether script is the set's combined script.
func (s *BranchSet) matchesScript(script []byte) bool {
	return bytes.Equal(s.script, script)
}

// Composer collects branch scripts and folds them into a combined script.
// Branches may only be added until the combined script is first derived,
// after which the composer is sealed.
//
// A Composer is not safe for concurrent use.
type Composer struct {
	branches []Branch
	sealed   *BranchSet
}

// NewComposer returns an empty composer.
func NewComposer() *Composer {
	return &Composer{}
}

// AddAlternative appends a branch.  The branch index is the number of branches
// added before it.  It fails with ErrSealedSet once the combined script has
// been derived.
func (c *Composer) AddAlternative(branch Branch) error {
	if c.sealed != nil {
		str := fmt.Sprintf("unable to add branch %d: combined script "+
			"already derived from %d branches", len(c.branches),
			len(c.branches))
		return branchError(ErrSealedSet, str)
	}

	c.branches = append(c.branches, Branch{
		Kind:   branch.Kind,
		Script: copyBytes(branch.Script),
	})
	return nil
}

// AddScript appends a branch script tagged with the kind ClassifyBranch
// reports for it.
func (c *Composer) AddScript(script []byte) error {
	return c.AddAlternative(NewBranch(script))
}

// NumBranches returns the number of branches added so far.
func (c *Composer) NumBranches() int {
	return len(c.branches)
}

// Seal derives the branch set on the first call and returns the cached set on
// every later one.  No further branches can be added afterwards.
func (c *Composer) Seal() (*BranchSet, error) {
	if c.sealed != nil {
		return c.sealed, nil
	}

	set, err := NewBranchSet(c.branches)
	if err != nil {
		return nil, err
	}

	log.Debugf("Sealed branch set of %d branches (%d byte combined "+
		"script)", set.NumBranches(), len(set.script))

	c.sealed = set
	return set, nil
}

// CombinedScript returns the combined script of all branches added so far and
// seals the composer.
func (c *Composer) CombinedScript() ([]byte, error) {
	set, err := c.Seal()
	if err != nil {
		return nil, err
	}
	return set.Script(), nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
