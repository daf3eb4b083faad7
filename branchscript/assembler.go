// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

// InputState is the lifecycle state of an input in an Assembler.
type InputState int

const (
	// StateUnselected is an input no branch has been selected for.  The
	// assembler never touches its signature script.
	StateUnselected InputState = iota

	// StateSelecting is an input with a selected branch that is collecting
	// signatures.
	StateSelecting

	// StateFinalized is an input whose signature script has been attached.
	StateFinalized
)

var inputStateStrings = map[InputState]string{
	StateUnselected: "unselected",
	StateSelecting:  "selecting",
	StateFinalized:  "finalized",
}

// String returns the InputState in human-readable form.
func (s InputState) String() string {
	if str, ok := inputStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// inputSigner is the signing state of one input spending a branch set.
type inputSigner struct {
	set           *BranchSet
	branch        int
	contributions []Contribution
	finalized     bool
}

// Assembler builds the signature scripts of the inputs of a transaction that
// spend combined scripts.  Each such input goes through the states
// unselected, selecting and finalized.
//
// An Assembler is not safe for concurrent use.  The state of different inputs
// is independent, so callers signing inputs in parallel only need to make sure
// no two goroutines work on the same input at once and that Finalize runs
// after all of them are done.
type Assembler struct {
	tx     *wire.MsgTx
	inputs map[int]*inputSigner
}

// NewAssembler returns an assembler for the passed transaction.  The
// transaction must already contain all inputs and outputs since the
// signatures commit to them.
func NewAssembler(tx *wire.MsgTx) *Assembler {
	return &Assembler{
		tx:     tx,
		inputs: make(map[int]*inputSigner),
	}
}

// Tx returns the transaction under construction.
func (a *Assembler) Tx() *wire.MsgTx {
	return a.tx
}

// InputState returns the lifecycle state of the given input.
func (a *Assembler) InputState(inputIndex int) InputState {
	signer, ok := a.inputs[inputIndex]
	switch {
	case !ok:
		return StateUnselected
	case signer.finalized:
		return StateFinalized
	default:
		return StateSelecting
	}
}

// SelectBranch records that the given input spends branch i of the n branches
// of set.  n must equal the number of branches in set.  Selecting again before
// the input is finalized starts over: signatures contributed for the earlier
// selection are discarded.
func (a *Assembler) SelectBranch(inputIndex int, set *BranchSet, i, n int) error {
	if inputIndex < 0 || inputIndex >= len(a.tx.TxIn) {
		str := fmt.Sprintf("transaction has no input %d (%d inputs)",
			inputIndex, len(a.tx.TxIn))
		return branchError(ErrInvalidInputIndex, str)
	}
	if i < 0 || i >= n {
		str := fmt.Sprintf("branch index %d out of range for %d "+
			"branches", i, n)
		return branchError(ErrInvalidBranchIndex, str)
	}
	if set == nil {
		str := fmt.Sprintf("input %d has no branch set, selection "+
			"assumed %d branches", inputIndex, n)
		return branchError(ErrBranchCountMismatch, str)
	}
	if n != set.NumBranches() {
		str := fmt.Sprintf("input %d spends a set of %d branches, "+
			"selection assumed %d", inputIndex, set.NumBranches(), n)
		return branchError(ErrBranchCountMismatch, str)
	}

	if prev, ok := a.inputs[inputIndex]; ok {
		if prev.finalized {
			str := fmt.Sprintf("input %d is already finalized",
				inputIndex)
			return branchError(ErrAlreadyFinalized, str)
		}
		if len(prev.contributions) > 0 {
			log.Debugf("Input %d: discarding %d signature(s) for "+
				"branch %d", inputIndex, len(prev.contributions),
				prev.branch)
		}
	}

	a.inputs[inputIndex] = &inputSigner{set: set, branch: i}

	log.Debugf("Input %d: selected branch %d of %d", inputIndex, i, n)
	return nil
}

// selecting returns the signing state of an input that is collecting
// signatures.
func (a *Assembler) selecting(inputIndex int) (*inputSigner, error) {
	signer, ok := a.inputs[inputIndex]
	if !ok || signer.finalized {
		str := fmt.Sprintf("input %d is %v, a branch must be selected "+
			"before signing", inputIndex, a.InputState(inputIndex))
		return nil, branchError(ErrInvalidState, str)
	}
	return signer, nil
}

// ContributeSignature signs the given input with key and adds the signature to
// the input's contributions.  combinedScript and branchScript must be the
// combined script the input spends and the script of the selected branch.  A
// zero hashType signs with txscript.SigHashAll.
//
// Multisig branches need one call per required signer.  The number of
// signatures is not checked; an input lacking signatures is rejected by the
// script engine once the transaction is validated.
func (a *Assembler) ContributeSignature(inputIndex int, key *btcec.PrivateKey,
	combinedScript []byte, hashType txscript.SigHashType,
	branchScript []byte) error {

	signer, err := a.selecting(inputIndex)
	if err != nil {
		return err
	}

	if !signer.set.matchesScript(combinedScript) {
		str := fmt.Sprintf("input %d spends a different combined "+
			"script", inputIndex)
		return branchError(ErrCombinedScriptMismatch, str)
	}
	selected := signer.set.branches[signer.branch]
	if !bytes.Equal(selected.Script, branchScript) {
		str := fmt.Sprintf("input %d selected branch %d, signature "+
			"refers to another branch script", inputIndex,
			signer.branch)
		return branchError(ErrBranchScriptMismatch, str)
	}

	if hashType == 0 {
		hashType = txscript.SigHashAll
	}

	sig, err := txscript.RawTxInSignature(
		a.tx, inputIndex, combinedScript, hashType, key,
	)
	if err != nil {
		return fmt.Errorf("unable to sign input %d: %w", inputIndex, err)
	}

	signer.contributions = append(signer.contributions, Contribution{
		PubKey:    key.PubKey(),
		Signature: sig,
	})

	log.Debugf("Input %d: added signature %d for branch %d", inputIndex,
		len(signer.contributions), signer.branch)
	return nil
}

// AddSignature adds a signature produced outside the assembler, for example by
// a co-signer, to the given input.  sig must include the hash type byte and
// commit to the combined script the input spends.
func (a *Assembler) AddSignature(inputIndex int, pubKey *btcec.PublicKey,
	sig []byte) error {

	signer, err := a.selecting(inputIndex)
	if err != nil {
		return err
	}

	signer.contributions = append(signer.contributions, Contribution{
		PubKey:    pubKey,
		Signature: copyBytes(sig),
	})

	log.Debugf("Input %d: added external signature %d for branch %d",
		inputIndex, len(signer.contributions), signer.branch)
	return nil
}

// signatureScript builds the signature script of an input:
//
//	<branch unlock data> <decisions, innermost first> <combined script>
//
// The outermost conditional is executed first, so its decision has to be on
// top of the stack and is pushed last.
func (s *inputSigner) signatureScript() ([]byte, error) {
	branch := s.set.branches[s.branch]

	unlocker, err := lookupUnlocker(branch.Kind)
	if err != nil {
		return nil, err
	}
	unlockData, err := unlocker.UnlockData(branch.Script, s.contributions)
	if err != nil {
		return nil, err
	}

	path, err := s.set.PathFor(s.branch)
	if err != nil {
		return nil, err
	}

	builder := txscript.NewScriptBuilder()
	for _, data := range unlockData {
		builder.AddData(data)
	}
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] {
			builder.AddOp(txscript.OP_TRUE)
		} else {
			builder.AddOp(txscript.OP_FALSE)
		}
	}
	builder.AddData(s.set.script)

	return builder.Script()
}

// FinalizeInput attaches the signature script of a single input.  It fails
// with ErrAlreadyFinalized when the input was finalized before and with
// ErrInvalidState when no branch was selected for it.
func (a *Assembler) FinalizeInput(inputIndex int) error {
	signer, ok := a.inputs[inputIndex]
	switch {
	case !ok:
		str := fmt.Sprintf("input %d has no selected branch",
			inputIndex)
		return branchError(ErrInvalidState, str)
	case signer.finalized:
		str := fmt.Sprintf("input %d is already finalized", inputIndex)
		return branchError(ErrAlreadyFinalized, str)
	}

	sigScript, err := signer.signatureScript()
	if err != nil {
		return fmt.Errorf("input %d: %w", inputIndex, err)
	}

	a.attach(inputIndex, signer, sigScript)
	return nil
}

// Finalize attaches the signature script of every input that is collecting
// signatures, in ascending input order.  Either all of them are attached or,
// on error, none.  Inputs finalized by an earlier call are left untouched and
// unselected inputs are never modified.
func (a *Assembler) Finalize() error {
	pending := make([]int, 0, len(a.inputs))
	for idx, signer := range a.inputs {
		if !signer.finalized {
			pending = append(pending, idx)
		}
	}
	sort.Ints(pending)

	sigScripts := make([][]byte, len(pending))
	for i, idx := range pending {
		sigScript, err := a.inputs[idx].signatureScript()
		if err != nil {
			return fmt.Errorf("input %d: %w", idx, err)
		}
		sigScripts[i] = sigScript
	}

	for i, idx := range pending {
		a.attach(idx, a.inputs[idx], sigScripts[i])
	}
	return nil
}

// Build finalizes all inputs and returns the transaction.
func (a *Assembler) Build() (*wire.MsgTx, error) {
	if err := a.Finalize(); err != nil {
		return nil, err
	}
	return a.tx, nil
}

func (a *Assembler) attach(inputIndex int, signer *inputSigner, sigScript []byte) {
	a.tx.TxIn[inputIndex].SignatureScript = sigScript
	signer.finalized = true

	log.Debugf("Input %d: finalized branch %d with %d signature(s)",
		inputIndex, signer.branch, len(signer.contributions))
	log.Tracef("Input %d signature script: %v", inputIndex,
		newLogClosure(func() string {
			return spew.Sdump(sigScript)
		}))
}
