// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// Keys used throughout the tests.  The first two correspond to the public
// keys 0247e6c3... and 0389688a... respectively.
const (
	testWIF1 = "L3bG2JdtcZtWd7fk8XYAtgnGHJYuPBFkDznJqw21bFWS5B8Pw1Zd"
	testWIF2 = "L3MRgBTuEtfvEpwb4CcGtDm4s79fDR8UK1AhVYcDdRL4pRpsy686"

	testPubKey1 = "0247e6c3a88d76ab7505c147e5a9bcf0011226f7690081dd728042831f90a391ed"
	testPubKey2 = "0389688a084ff6f83c9ed3c91236e0f46d060cef32da23dfc6fc147fde6af9ca10"
	testPubKey3 = "02f3a32b55520c115cc61860066c8280d0adbb471abe5b89e0b5e864948a34961e"
	testPubKey4 = "03d93547f38370b35471a8ee463b4245d6b1282a0feccce8e149c4ada76d32df1a"

	// testPayTo is the destination of the spending transactions.
	testPayTo = "1Dc8JwPsxxwHJ9zX1ERYo9q7NQA9SRLqbC"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// mustDecodeWIF returns the private key encoded by the passed WIF string.
func mustDecodeWIF(t *testing.T, s string) *btcec.PrivateKey {
	t.Helper()

	wif, err := btcutil.DecodeWIF(s)
	require.NoError(t, err)
	return wif.PrivKey
}

// multiSigScript returns an M-of-N multisig script over the passed hex encoded
// public keys.
func multiSigScript(t *testing.T, nRequired int, pubKeys ...string) []byte {
	t.Helper()

	addrs := make([]*btcutil.AddressPubKey, 0, len(pubKeys))
	for _, pk := range pubKeys {
		addr, err := btcutil.NewAddressPubKey(
			hexToBytes(pk), &chaincfg.MainNetParams,
		)
		require.NoError(t, err)
		addrs = append(addrs, addr)
	}

	script, err := txscript.MultiSigScript(addrs, nRequired)
	require.NoError(t, err)
	return script
}

// pubKeyHashScript returns the pay-to-pubkey-hash script paying to the hex
// encoded public key.
func pubKeyHashScript(t *testing.T, pubKey string) []byte {
	t.Helper()

	addr, err := btcutil.NewAddressPubKeyHash(
		btcutil.Hash160(hexToBytes(pubKey)), &chaincfg.MainNetParams,
	)
	require.NoError(t, err)

	script, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	return script
}

// spendTx returns a transaction with numInputs inputs paying amount to
// testPayTo.
func spendTx(t *testing.T, numInputs int, amount int64) *wire.MsgTx {
	t.Helper()

	prevHash, err := chainhash.NewHashFromStr(
		"50532269225a525179b29e65ea25959c559d2dbd84f828b89e98f74074d74303",
	)
	require.NoError(t, err)

	tx := wire.NewMsgTx(1)
	for i := 0; i < numInputs; i++ {
		prevOut := wire.NewOutPoint(prevHash, uint32(i))
		tx.AddTxIn(wire.NewTxIn(prevOut, nil, nil))
	}

	addr, err := btcutil.DecodeAddress(testPayTo, &chaincfg.MainNetParams)
	require.NoError(t, err)
	pkScript, err := txscript.PayToAddrScript(addr)
	require.NoError(t, err)
	tx.AddTxOut(wire.NewTxOut(amount, pkScript))

	return tx
}

// decodePushes returns the elements a push-only script leaves on the stack,
// OP_0 being an empty element and OP_1 through OP_16 their numeric value.
func decodePushes(t *testing.T, script []byte) [][]byte {
	t.Helper()

	var pushes [][]byte
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		switch {
		case op == txscript.OP_0:
			pushes = append(pushes, []byte{})
		case op >= txscript.OP_1 && op <= txscript.OP_16:
			pushes = append(pushes, []byte{op - (txscript.OP_1 - 1)})
		case op <= txscript.OP_PUSHDATA4:
			pushes = append(pushes, tokenizer.Data())
		default:
			t.Fatalf("unexpected non-push opcode %x in %x", op, script)
		}
	}
	require.NoError(t, tokenizer.Err())
	return pushes
}
