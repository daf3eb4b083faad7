// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
)

// spendCmd defines the configuration options for the spend command.
type spendCmd struct {
	Address  string   `short:"a" long:"address" description:"Pay-to-script-hash address of the stored branch set" required:"true"`
	OutPoint string   `short:"o" long:"outpoint" description:"Output to spend as <txid>:<index>" required:"true"`
	Amount   float64  `long:"amount" description:"Value of the spent output in BTC" required:"true"`
	To       string   `long:"to" description:"Address receiving the spent value less the fee" required:"true"`
	Fee      float64  `long:"fee" description:"Transaction fee in BTC" default:"0.0001"`
	Index    int      `short:"i" long:"index" description:"Index of the branch to spend through"`
	WIFs     []string `short:"k" long:"wif" description:"WIF encoded private key signing for the branch, repeat for every multisig signer"`
	LockTime uint32   `long:"locktime" description:"Lock time of the spending transaction"`
}

var (
	// spendCfg defines the configuration options for the command.
	spendCfg = spendCmd{}
)

// spendRequest describes a single input spend of a branch set output.
type spendRequest struct {
	set      *branchscript.BranchSet
	prevOut  *wire.OutPoint
	amount   btcutil.Amount
	fee      btcutil.Amount
	payTo    btcutil.Address
	branch   int
	keys     []*btcec.PrivateKey
	lockTime uint32
}

// parseOutPoint parses <txid>:<index>.
func parseOutPoint(s string) (*wire.OutPoint, error) {
	txid, index, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("outpoint %q is not of the form "+
			"<txid>:<index>", s)
	}
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(index, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid output index %q: %w", index, err)
	}
	return wire.NewOutPoint(hash, uint32(n)), nil
}

// decodeKeys decodes the WIF encoded private keys, which must belong to
// params.
func decodeKeys(wifs []string, params *chaincfg.Params) ([]*btcec.PrivateKey, error) {
	keys := make([]*btcec.PrivateKey, 0, len(wifs))
	for i, encoded := range wifs {
		wif, err := btcutil.DecodeWIF(encoded)
		if err != nil {
			return nil, fmt.Errorf("invalid key %d: %w", i, err)
		}
		if !wif.IsForNet(params) {
			return nil, fmt.Errorf("key %d is not for %s", i,
				params.Name)
		}
		keys = append(keys, wif.PrivKey)
	}
	return keys, nil
}

// buildSpend creates, signs, and validates the transaction described by req.
func buildSpend(req *spendRequest) (*wire.MsgTx, error) {
	value := req.amount - req.fee
	if value <= 0 {
		return nil, fmt.Errorf("fee %v leaves nothing of the spent %v",
			req.fee, req.amount)
	}
	branch, err := req.set.Branch(req.branch)
	if err != nil {
		return nil, err
	}

	payScript, err := txscript.PayToAddrScript(req.payTo)
	if err != nil {
		return nil, err
	}
	tx := wire.NewMsgTx(wire.TxVersion)
	tx.AddTxIn(wire.NewTxIn(req.prevOut, nil, nil))
	tx.AddTxOut(wire.NewTxOut(int64(value), payScript))
	tx.LockTime = req.lockTime
	if req.lockTime != 0 {
		tx.TxIn[0].Sequence = wire.MaxTxInSequenceNum - 1
	}

	assembler := branchscript.NewAssembler(tx)
	err = assembler.SelectBranch(0, req.set, req.branch, req.set.NumBranches())
	if err != nil {
		return nil, err
	}
	combined := req.set.Script()
	for _, key := range req.keys {
		err := assembler.ContributeSignature(
			0, key, combined, txscript.SigHashAll, branch.Script,
		)
		if err != nil {
			return nil, err
		}
	}
	signed, err := assembler.Build()
	if err != nil {
		return nil, err
	}

	pkScript, err := req.set.PkScript()
	if err != nil {
		return nil, err
	}
	if err := branchscript.VerifyInput(signed, 0, pkScript, int64(req.amount)); err != nil {
		log.Debugf("Rejected transaction: %v", newLogClosure(func() string {
			return spew.Sdump(signed)
		}))
		return nil, err
	}
	return signed, nil
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *spendCmd) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	if len(cmd.WIFs) == 0 {
		return errors.New("at least one --wif is required")
	}
	addr, err := btcutil.DecodeAddress(cmd.Address, activeNetParams)
	if err != nil {
		return err
	}
	payTo, err := btcutil.DecodeAddress(cmd.To, activeNetParams)
	if err != nil {
		return err
	}
	if !payTo.IsForNet(activeNetParams) {
		return fmt.Errorf("address %s is not for %s", cmd.To,
			activeNetParams.Name)
	}
	prevOut, err := parseOutPoint(cmd.OutPoint)
	if err != nil {
		return err
	}
	amount, err := btcutil.NewAmount(cmd.Amount)
	if err != nil {
		return err
	}
	fee, err := btcutil.NewAmount(cmd.Fee)
	if err != nil {
		return err
	}
	keys, err := decodeKeys(cmd.WIFs, activeNetParams)
	if err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	defer store.Close()

	set, err := store.FetchByAddress(addr)
	if err != nil {
		return err
	}

	tx, err := buildSpend(&spendRequest{
		set:      set,
		prevOut:  prevOut,
		amount:   amount,
		fee:      fee,
		payTo:    payTo,
		branch:   cmd.Index,
		keys:     keys,
		lockTime: cmd.LockTime,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		return err
	}
	log.Infof("Signed transaction %v spending %v through branch %d",
		tx.TxHash(), prevOut, cmd.Index)
	fmt.Printf("%x\n", buf.Bytes())
	return nil
}
