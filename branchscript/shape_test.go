// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/txscript"
)

// TestPathFor ensures the decisions for small branch counts match the nesting
// of the left leaning fold.
func TestPathFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		branch int
		n      int
		want   []bool
	}{
		{branch: 0, n: 1, want: []bool{}},
		{branch: 0, n: 2, want: []bool{true}},
		{branch: 1, n: 2, want: []bool{false}},
		{branch: 0, n: 3, want: []bool{true, true}},
		{branch: 1, n: 3, want: []bool{true, false}},
		{branch: 2, n: 3, want: []bool{false}},
		{branch: 0, n: 4, want: []bool{true, true, true}},
		{branch: 2, n: 4, want: []bool{true, false}},
		{branch: 3, n: 4, want: []bool{false}},
	}

	for i, test := range tests {
		got, err := PathFor(test.branch, test.n)
		if err != nil {
			t.Errorf("PathFor #%d (%d of %d): unexpected error: %v", i,
				test.branch, test.n, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("PathFor #%d (%d of %d): got %v, want %v", i,
				test.branch, test.n, got, test.want)
		}
	}
}

// TestPathForErrors ensures out of range selections are rejected.
func TestPathForErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		branch int
		n      int
	}{
		{branch: -1, n: 2},
		{branch: 2, n: 2},
		{branch: 5, n: 3},
		{branch: 0, n: 0},
	}

	for i, test := range tests {
		_, err := PathFor(test.branch, test.n)
		if !IsErrorCode(err, ErrInvalidBranchIndex) {
			t.Errorf("PathFor #%d (%d of %d): unexpected error %v", i,
				test.branch, test.n, err)
		}
	}
}

// TestNewShapeEmpty ensures a shape can not be built for zero branches.
func TestNewShapeEmpty(t *testing.T) {
	t.Parallel()

	if _, err := NewShape(0); !IsErrorCode(err, ErrEmptyBranchSet) {
		t.Fatalf("NewShape(0): unexpected error %v", err)
	}
	if _, err := Fold(nil); !IsErrorCode(err, ErrEmptyBranchSet) {
		t.Fatalf("Fold(nil): unexpected error %v", err)
	}
}

// leafScripts returns n distinct single push scripts.
func leafScripts(n int) [][]byte {
	scripts := make([][]byte, n)
	for i := range scripts {
		scripts[i] = []byte{txscript.OP_DATA_2, byte(i >> 8), byte(i)}
	}
	return scripts
}

// runConditionals walks a folded script the way the script engine handles
// OP_IF/OP_ELSE/OP_ENDIF, consuming decisions outermost first, and returns the
// data pushes that would execute along with the nesting depth of every push.
func runConditionals(t *testing.T, script []byte, decisions []bool) ([][]byte, map[string]int) {
	t.Helper()

	var executed [][]byte
	var condStack []bool
	depths := make(map[string]int)
	isExecuting := func() bool {
		for _, cond := range condStack {
			if !cond {
				return false
			}
		}
		return true
	}

	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		switch tokenizer.Opcode() {
		case txscript.OP_IF:
			cond := false
			if isExecuting() {
				if len(decisions) == 0 {
					t.Fatalf("ran out of decisions")
				}
				cond = decisions[0]
				decisions = decisions[1:]
			}
			condStack = append(condStack, cond)

		case txscript.OP_ELSE:
			last := len(condStack) - 1
			condStack[last] = !condStack[last]

			// A skipped outer block keeps the inner else skipped.
			if !condStack[last] {
				break
			}
			for _, cond := range condStack[:last] {
				if !cond {
					condStack[last] = false
					break
				}
			}

		case txscript.OP_ENDIF:
			condStack = condStack[:len(condStack)-1]

		default:
			depths[string(tokenizer.Data())] = len(condStack)
			if isExecuting() {
				executed = append(executed, tokenizer.Data())
			}
		}
	}
	if err := tokenizer.Err(); err != nil {
		t.Fatalf("unable to tokenize folded script: %v", err)
	}
	if len(decisions) != 0 {
		t.Fatalf("%d decisions left unused", len(decisions))
	}

	return executed, depths
}

// TestFoldPathConsistency ensures that for every branch of sets up to twenty
// branches the path routes execution to exactly that branch and has the
// length of the branch's nesting depth in the folded script.
func TestFoldPathConsistency(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 20; n++ {
		scripts := leafScripts(n)
		shape, err := NewShape(n)
		if err != nil {
			t.Fatalf("NewShape(%d): %v", n, err)
		}
		folded, err := shape.Fold(scripts)
		if err != nil {
			t.Fatalf("Fold(%d): %v", n, err)
		}

		for i := 0; i < n; i++ {
			path, err := shape.Path(i)
			if err != nil {
				t.Fatalf("Path(%d of %d): %v", i, n, err)
			}

			executed, depths := runConditionals(t, folded, path)
			if len(executed) != 1 {
				t.Fatalf("path %v of %d branches executed %d "+
					"leaves", path, n, len(executed))
			}
			want := scripts[i][1:]
			if !bytes.Equal(executed[0], want) {
				t.Fatalf("path %v of %d branches executed leaf "+
					"%x, want %x", path, n, executed[0], want)
			}
			if depths[string(want)] != len(path) {
				t.Fatalf("branch %d of %d: depth %d, path "+
					"length %d", i, n, depths[string(want)],
					len(path))
			}

			depth, err := shape.Depth(i)
			if err != nil || depth != len(path) {
				t.Fatalf("Depth(%d of %d) = %d, %v", i, n, depth,
					err)
			}
		}
	}
}

// TestFoldDeterministic ensures folding the same scripts twice yields the same
// bytes and that the byte layout is exactly the conditional wrapping.
func TestFoldDeterministic(t *testing.T) {
	t.Parallel()

	scripts := leafScripts(3)
	first, err := Fold(scripts)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	second, err := Fold(scripts)
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("fold is not deterministic: %x != %x", first, second)
	}

	var want []byte
	want = append(want, txscript.OP_IF, txscript.OP_IF)
	want = append(want, scripts[0]...)
	want = append(want, txscript.OP_ELSE)
	want = append(want, scripts[1]...)
	want = append(want, txscript.OP_ENDIF, txscript.OP_ELSE)
	want = append(want, scripts[2]...)
	want = append(want, txscript.OP_ENDIF)
	if !bytes.Equal(first, want) {
		t.Fatalf("unexpected fold: got %x, want %x", first, want)
	}
}

// TestFoldSingleBranch ensures a single branch is not wrapped at all.
func TestFoldSingleBranch(t *testing.T) {
	t.Parallel()

	script := hexToBytes("76a914a2f26faf639c9a7e6a3ae5076bf7bbbf6cf1732a88ac")
	folded, err := Fold([][]byte{script})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if !bytes.Equal(folded, script) {
		t.Fatalf("single branch was wrapped: %x", folded)
	}
}

// TestShapeFoldCountMismatch ensures a shape refuses a different number of
// scripts than it was built for.
func TestShapeFoldCountMismatch(t *testing.T) {
	t.Parallel()

	shape, err := NewShape(3)
	if err != nil {
		t.Fatalf("NewShape: %v", err)
	}
	_, err = shape.Fold(leafScripts(2))
	if !IsErrorCode(err, ErrBranchCountMismatch) {
		t.Fatalf("unexpected error %v", err)
	}
}
