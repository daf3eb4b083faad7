// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

// VerifyInput executes the signature script of input idx of tx against the
// output script it spends using the txscript engine with the standard
// verification flags.  amount is the value of the spent output.
func VerifyInput(tx *wire.MsgTx, idx int, pkScript []byte, amount int64) error {
	prevOuts := txscript.NewCannedPrevOutputFetcher(pkScript, amount)
	sigHashes := txscript.NewTxSigHashes(tx, prevOuts)

	vm, err := txscript.NewEngine(
		pkScript, tx, idx, txscript.StandardVerifyFlags, nil,
		sigHashes, amount, prevOuts,
	)
	if err != nil {
		return fmt.Errorf("unable to create script engine for input "+
			"%d: %w", idx, err)
	}

	if err := vm.Execute(); err != nil {
		return fmt.Errorf("input %d failed validation: %w", idx, err)
	}
	return nil
}
