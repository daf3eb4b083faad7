// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// parseBranch converts a branch specification into a branch.  The accepted
// forms are:
//
//	script:<hex>                  raw script
//	pkh:<address>                 pay-to-pubkey-hash
//	pk:<hex pubkey>               pay-to-pubkey
//	multisig:<m>:<pk1>,<pk2>,...  bare m-of-n multisig
func parseBranch(spec string, params *chaincfg.Params) (branchscript.Branch, error) {
	kind, value, ok := strings.Cut(spec, ":")
	if !ok {
		return branchscript.Branch{}, fmt.Errorf("branch %q is not of "+
			"the form <kind>:<value>", spec)
	}

	var script []byte
	var err error
	switch kind {
	case "script":
		script, err = hex.DecodeString(value)

	case "pkh":
		script, err = pubKeyHashScript(value, params)

	case "pk":
		var addr *btcutil.AddressPubKey
		addr, err = parsePubKey(value, params)
		if err == nil {
			script, err = txscript.PayToAddrScript(addr)
		}

	case "multisig":
		script, err = multiSigScript(value, params)

	default:
		return branchscript.Branch{}, fmt.Errorf("unknown branch kind "+
			"%q -- supported kinds are script, pkh, pk and multisig",
			kind)
	}
	if err != nil {
		return branchscript.Branch{}, fmt.Errorf("invalid %s branch "+
			"%q: %w", kind, value, err)
	}
	if len(script) == 0 {
		return branchscript.Branch{}, fmt.Errorf("branch %q has an "+
			"empty script", spec)
	}

	return branchscript.NewBranch(script), nil
}

// pubKeyHashScript returns the script paying to the encoded pubkey hash
// address.
func pubKeyHashScript(encoded string, params *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(encoded, params)
	if err != nil {
		return nil, err
	}
	pkh, ok := addr.(*btcutil.AddressPubKeyHash)
	if !ok || !pkh.IsForNet(params) {
		return nil, fmt.Errorf("not a %s pay-to-pubkey-hash address",
			params.Name)
	}
	return txscript.PayToAddrScript(pkh)
}

// parsePubKey decodes a hex encoded public key.
func parsePubKey(encoded string, params *chaincfg.Params) (*btcutil.AddressPubKey, error) {
	serialized, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return btcutil.NewAddressPubKey(serialized, params)
}

// multiSigScript parses <m>:<pk1>,<pk2>,... into a multisig script.
func multiSigScript(value string, params *chaincfg.Params) ([]byte, error) {
	required, keys, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("expected <m>:<pk1>,<pk2>,...")
	}
	nRequired, err := strconv.Atoi(required)
	if err != nil {
		return nil, err
	}

	var addrs []*btcutil.AddressPubKey
	for _, key := range strings.Split(keys, ",") {
		addr, err := parsePubKey(key, params)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	if nRequired < 1 || nRequired > len(addrs) {
		return nil, fmt.Errorf("%d signatures can not be required "+
			"from %d keys", nRequired, len(addrs))
	}
	return txscript.MultiSigScript(addrs, nRequired)
}

// formatPath renders the decisions of a path outermost first.
func formatPath(path []bool) string {
	if len(path) == 0 {
		return "(none)"
	}
	decisions := make([]string, len(path))
	for i, d := range path {
		decisions[i] = "ELSE"
		if d {
			decisions[i] = "IF"
		}
	}
	return strings.Join(decisions, ",")
}

// disasm returns the disassembly of script or a placeholder when it does not
// parse.
func disasm(script []byte) string {
	str, err := txscript.DisasmString(script)
	if err != nil {
		return fmt.Sprintf("[error: %v] %s", err, str)
	}
	return str
}

// printSet writes a human readable description of set to w.
func printSet(w io.Writer, set *branchscript.BranchSet, params *chaincfg.Params) error {
	addr, err := set.Address(params)
	if err != nil {
		return err
	}

	script := set.Script()
	fmt.Fprintf(w, "Address:       %s\n", addr.EncodeAddress())
	fmt.Fprintf(w, "Script hash:   %x\n", set.ScriptHash())
	fmt.Fprintf(w, "Redeem script: %x\n", script)
	fmt.Fprintf(w, "Script size:   %d bytes\n", len(script))
	fmt.Fprintf(w, "Disassembly:   %s\n", disasm(script))
	fmt.Fprintf(w, "Branches:      %d\n", set.NumBranches())

	for i, branch := range set.Branches() {
		path, err := set.PathFor(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  [%d] %-11s path=%s\n", i, branch.Kind,
			formatPath(path))
		fmt.Fprintf(w, "      %s\n", disasm(branch.Script))
	}

	if len(script) > txscript.MaxScriptElementSize {
		fmt.Fprintf(w, "WARNING: the redeem script exceeds the %d byte "+
			"push limit and can not be spent\n",
			txscript.MaxScriptElementSize)
	}
	return nil
}
