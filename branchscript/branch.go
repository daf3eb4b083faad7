// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
)

// BranchKind identifies the unlocking convention of a branch script.
type BranchKind uint8

const (
	// NonStandardBranch is a branch script with no known unlocking
	// convention.  It can be composed but not spent unless an Unlocker is
	// registered for it.
	NonStandardBranch BranchKind = iota

	// PubKeyHashBranch is a pay-to-pubkey-hash script.
	PubKeyHashBranch

	// MultiSigBranch is a bare M-of-N multisig script.
	MultiSigBranch

	// PubKeyBranch is a pay-to-pubkey script.
	PubKeyBranch
)

var branchKindStrings = map[BranchKind]string{
	NonStandardBranch: "nonstandard",
	PubKeyHashBranch:  "pubkeyhash",
	MultiSigBranch:    "multisig",
	PubKeyBranch:      "pubkey",
}

// String returns the BranchKind in human-readable form.
func (k BranchKind) String() string {
	if s, ok := branchKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Branch is one alternative locking script of a branch set together with the
// tag selecting its unlocking convention.
type Branch struct {
	Kind   BranchKind
	Script []byte
}

// ClassifyBranch returns the branch kind of a script as recognized by
// txscript.  Scripts txscript does not recognize are NonStandardBranch.
func ClassifyBranch(script []byte) BranchKind {
	switch txscript.GetScriptClass(script) {
	case txscript.PubKeyHashTy:
		return PubKeyHashBranch
	case txscript.MultiSigTy:
		return MultiSigBranch
	case txscript.PubKeyTy:
		return PubKeyBranch
	default:
		return NonStandardBranch
	}
}

// NewBranch returns a branch for the passed script, tagged with the kind
// reported by ClassifyBranch.
func NewBranch(script []byte) Branch {
	return Branch{Kind: ClassifyBranch(script), Script: script}
}

// Contribution is one signature over a spending input, tagged with the public
// key of its signer.  Signature includes the trailing hash type byte.
type Contribution struct {
	PubKey    *btcec.PublicKey
	Signature []byte
}

// Unlocker produces the data a branch script expects on the stack when it is
// executed, in push order.  An empty element is pushed as OP_0.
type Unlocker interface {
	UnlockData(branchScript []byte, contributions []Contribution) ([][]byte, error)
}

// UnlockerFunc is an adapter that allows an ordinary function to be used as
// an Unlocker.
type UnlockerFunc func(branchScript []byte, contributions []Contribution) ([][]byte, error)

// UnlockData calls f(branchScript, contributions).
func (f UnlockerFunc) UnlockData(branchScript []byte,
	contributions []Contribution) ([][]byte, error) {

	return f(branchScript, contributions)
}

var (
	unlockersMtx sync.RWMutex
	unlockers    = map[BranchKind]Unlocker{
		PubKeyHashBranch: UnlockerFunc(pubKeyHashUnlockData),
		MultiSigBranch:   UnlockerFunc(multiSigUnlockData),
		PubKeyBranch:     UnlockerFunc(pubKeyUnlockData),
	}
)

// RegisterUnlocker adds an unlocking convention for branches of the given
// kind.  Kinds already in the catalog, including the built in ones, can not
// be replaced.
func RegisterUnlocker(kind BranchKind, unlocker Unlocker) error {
	unlockersMtx.Lock()
	defer unlockersMtx.Unlock()

	if _, exists := unlockers[kind]; exists {
		str := fmt.Sprintf("unlocker for branch kind %v is already "+
			"registered", kind)
		return branchError(ErrDuplicateUnlocker, str)
	}

	unlockers[kind] = unlocker
	log.Debugf("Registered unlocker for branch kind %v", kind)
	return nil
}

// lookupUnlocker returns the unlocker registered for kind.
func lookupUnlocker(kind BranchKind) (Unlocker, error) {
	unlockersMtx.RLock()
	defer unlockersMtx.RUnlock()

	unlocker, ok := unlockers[kind]
	if !ok {
		str := fmt.Sprintf("no unlocker registered for branch kind %v",
			kind)
		return nil, branchError(ErrNoUnlocker, str)
	}
	return unlocker, nil
}

// pubKeyHashUnlockData pushes a signature followed by the public key for every
// contribution.  The key is serialized in whichever format hashes to the
// script's pubkey hash, compressed when neither does.
func pubKeyHashUnlockData(branchScript []byte,
	contributions []Contribution) ([][]byte, error) {

	var pkHash []byte
	pushes, err := txscript.PushedData(branchScript)
	if err == nil && len(pushes) == 1 {
		pkHash = pushes[0]
	}

	data := make([][]byte, 0, 2*len(contributions))
	for _, c := range contributions {
		data = append(data, c.Signature, serializeForHash(c.PubKey, pkHash))
	}
	return data, nil
}

func serializeForHash(pubKey *btcec.PublicKey, pkHash []byte) []byte {
	compressed := pubKey.SerializeCompressed()
	if pkHash == nil || bytes.Equal(btcutil.Hash160(compressed), pkHash) {
		return compressed
	}

	uncompressed := pubKey.SerializeUncompressed()
	if bytes.Equal(btcutil.Hash160(uncompressed), pkHash) {
		return uncompressed
	}
	return compressed
}

// multiSigUnlockData pushes the dummy element OP_CHECKMULTISIG pops followed by
// the contributed signatures in the order their keys appear in the script.
// The number of signatures is not checked against the required count.
func multiSigUnlockData(branchScript []byte,
	contributions []Contribution) ([][]byte, error) {

	pushes, err := txscript.PushedData(branchScript)
	if err != nil {
		return nil, fmt.Errorf("unable to parse multisig script: %w", err)
	}

	pubKeys := make([]*btcec.PublicKey, len(pushes))
	for i, push := range pushes {
		pubKey, err := btcec.ParsePubKey(push)
		if err != nil {
			continue
		}
		pubKeys[i] = pubKey
	}

	sigs := make([][]byte, len(pubKeys))
	for _, c := range contributions {
		idx := -1
		for i, pubKey := range pubKeys {
			if pubKey != nil && pubKey.IsEqual(c.PubKey) {
				idx = i
				break
			}
		}
		if idx == -1 {
			str := fmt.Sprintf("public key %x is not part of the "+
				"multisig branch", c.PubKey.SerializeCompressed())
			return nil, branchError(ErrUnknownSigner, str)
		}
		if sigs[idx] != nil {
			log.Debugf("Replacing earlier signature for key %x",
				c.PubKey.SerializeCompressed())
		}
		sigs[idx] = c.Signature
	}

	data := make([][]byte, 0, len(sigs)+1)
	data = append(data, nil)
	for _, sig := range sigs {
		if sig != nil {
			data = append(data, sig)
		}
	}
	return data, nil
}

// pubKeyUnlockData pushes the signature of every contribution.
func pubKeyUnlockData(_ []byte, contributions []Contribution) ([][]byte, error) {
	data := make([][]byte, 0, len(contributions))
	for _, c := range contributions {
		data = append(data, c.Signature)
	}
	return data, nil
}
