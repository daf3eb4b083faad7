// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

// shapeNode is a node of the conditional nesting tree.  A leaf refers to a
// branch by index, an interior node is an OP_IF/OP_ELSE/OP_ENDIF block whose
// true arm is ifNode and whose false arm is elseNode.
type shapeNode struct {
	ifNode   *shapeNode
	elseNode *shapeNode

	// first and last are the inclusive range of branch indices covered by
	// the subtree rooted at this node.
	first int
	last  int
}

func (n *shapeNode) isLeaf() bool {
	return n.ifNode == nil
}

func (n *shapeNode) covers(i int) bool {
	return i >= n.first && i <= n.last
}

// Shape describes how a given number of branches are nested into conditional
// blocks.  Both the combined script and the spend path of every branch are
// derived from the same Shape, which keeps the two structurally identical.
//
// A Shape is immutable and safe for concurrent use.
type Shape struct {
	root        *shapeNode
	numBranches int
}

// NewShape returns the left leaning shape for numBranches branches.  The first
// branch is the innermost true arm and every following branch becomes the
// false arm of a new conditional wrapping everything before it.
func NewShape(numBranches int) (*Shape, error) {
	if numBranches < 1 {
		str := fmt.Sprintf("a branch set needs at least one branch, "+
			"got %d", numBranches)
		return nil, branchError(ErrEmptyBranchSet, str)
	}

	root := &shapeNode{first: 0, last: 0}
	for i := 1; i < numBranches; i++ {
		root = &shapeNode{
			ifNode:   root,
			elseNode: &shapeNode{first: i, last: i},
			first:    0,
			last:     i,
		}
	}

	return &Shape{root: root, numBranches: numBranches}, nil
}

// NumBranches returns the number of branches the shape was built for.
func (s *Shape) NumBranches() int {
	return s.numBranches
}

// Fold combines the passed scripts, which must be exactly NumBranches long,
// into a single script following the shape.  The branch scripts are embedded
// byte for byte with no additional padding.  A single branch is returned
// unwrapped.
func (s *Shape) Fold(scripts [][]byte) ([]byte, error) {
	if len(scripts) != s.numBranches {
		str := fmt.Sprintf("shape has %d branches, got %d scripts",
			s.numBranches, len(scripts))
		return nil, branchError(ErrBranchCountMismatch, str)
	}

	builder := txscript.NewScriptBuilder()
	s.root.fold(builder, scripts)
	script, err := builder.Script()
	if err != nil {
		return nil, fmt.Errorf("unable to fold branch scripts: %w", err)
	}

	return script, nil
}

func (n *shapeNode) fold(builder *txscript.ScriptBuilder, scripts [][]byte) {
	if n.isLeaf() {
		builder.AddOps(scripts[n.first])
		return
	}

	builder.AddOp(txscript.OP_IF)
	n.ifNode.fold(builder, scripts)
	builder.AddOp(txscript.OP_ELSE)
	n.elseNode.fold(builder, scripts)
	builder.AddOp(txscript.OP_ENDIF)
}

// Path returns the conditional decisions that route execution of the folded
// script to the given branch, ordered from the outermost conditional to the
// innermost one.  True takes the OP_IF arm, false the OP_ELSE arm.
func (s *Shape) Path(branch int) ([]bool, error) {
	if branch < 0 || branch >= s.numBranches {
		str := fmt.Sprintf("branch index %d out of range for %d "+
			"branches", branch, s.numBranches)
		return nil, branchError(ErrInvalidBranchIndex, str)
	}

	path := make([]bool, 0, s.numBranches-1)
	for node := s.root; !node.isLeaf(); {
		if node.ifNode.covers(branch) {
			path = append(path, true)
			node = node.ifNode
			continue
		}

		path = append(path, false)
		node = node.elseNode
	}

	return path, nil
}

// Depth returns the number of conditionals enclosing the given branch.
func (s *Shape) Depth(branch int) (int, error) {
	path, err := s.Path(branch)
	if err != nil {
		return 0, err
	}
	return len(path), nil
}

// Fold combines the passed branch scripts into a single branch-selecting
// script.  See Shape.Fold.
func Fold(scripts [][]byte) ([]byte, error) {
	shape, err := NewShape(len(scripts))
	if err != nil {
		return nil, err
	}
	return shape.Fold(scripts)
}

// PathFor returns the decisions required to reach branch i of n in a script
// produced by Fold.  See Shape.Path.
func PathFor(i, n int) ([]bool, error) {
	if n < 1 {
		str := fmt.Sprintf("branch index %d out of range for %d "+
			"branches", i, n)
		return nil, branchError(ErrInvalidBranchIndex, str)
	}

	shape, err := NewShape(n)
	if err != nil {
		return nil, err
	}
	return shape.Path(i)
}
