// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/btcsuite/btcbranch/branchscript"
	"github.com/btcsuite/btcd/btcutil"
)

// showCmd defines the configuration options for the show command.
type showCmd struct{}

// listCmd defines the configuration options for the list command.
type listCmd struct{}

var (
	showCfg = showCmd{}
	listCfg = listCmd{}
)

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *showCmd) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	// Ensure expected arguments.
	if len(args) < 1 {
		return errors.New("required address parameter not specified")
	}
	addr, err := btcutil.DecodeAddress(args[0], activeNetParams)
	if err != nil {
		return err
	}
	if !addr.IsForNet(activeNetParams) {
		return fmt.Errorf("address %s is not for %s", args[0],
			activeNetParams.Name)
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
	return printSet(os.Stdout, set, activeNetParams)
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *listCmd) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var count int
	err = store.ForEachSet(func(_ []byte, set *branchscript.BranchSet) error {
		addr, err := set.Address(activeNetParams)
		if err != nil {
			return err
		}
		count++
		fmt.Printf("%s  %d branches  %d bytes\n", addr.EncodeAddress(),
			set.NumBranches(), len(set.Script()))
		return nil
	})
	if err != nil {
		return err
	}

	log.Infof("Listed %d branch sets", count)
	return nil
}
