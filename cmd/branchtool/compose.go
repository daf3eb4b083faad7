// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"os"

	"github.com/btcsuite/btcbranch/branchscript"
)

// composeCmd defines the configuration options for the compose command.
type composeCmd struct {
	Branches []string `short:"r" long:"branch" description:"Branch to add, in order: script:<hex>, pkh:<address>, pk:<pubkey>, or multisig:<m>:<pk1>,<pk2>,..."`
	NoStore  bool     `long:"nostore" description:"Print the composed set without storing it"`
}

var (
	// composeCfg defines the configuration options for the command.
	composeCfg = composeCmd{}
)

// composeSet builds the branch set described by the branch specifications.
func composeSet(specs []string) (*branchscript.BranchSet, error) {
	if len(specs) == 0 {
		return nil, errors.New("at least one --branch is required")
	}

	composer := branchscript.NewComposer()
	for _, spec := range specs {
		branch, err := parseBranch(spec, activeNetParams)
		if err != nil {
			return nil, err
		}
		if err := composer.AddAlternative(branch); err != nil {
			return nil, err
		}
	}
	return composer.Seal()
}

// Execute is the main entry point for the command.  It's invoked by the parser.
func (cmd *composeCmd) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	set, err := composeSet(cmd.Branches)
	if err != nil {
		return err
	}
	if err := printSet(os.Stdout, set, activeNetParams); err != nil {
		return err
	}
	if cmd.NoStore {
		return nil
	}

	store, err := loadStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.PutSet(set); err != nil {
		return err
	}
	log.Infof("Stored branch set %x", set.ScriptHash())
	return nil
}
