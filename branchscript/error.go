// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchscript

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrSealedSet indicates an attempt to add a branch to a composer whose
	// combined script has already been derived.
	ErrSealedSet ErrorCode = iota

	// ErrEmptyBranchSet indicates a combined script or shape was requested
	// for zero branches.
	ErrEmptyBranchSet

	// ErrInvalidBranchIndex indicates a branch index outside [0, N).
	ErrInvalidBranchIndex

	// ErrBranchCountMismatch indicates the branch count supplied by the
	// caller does not match the number of branches in the sealed set.
	ErrBranchCountMismatch

	// ErrBranchScriptMismatch indicates a signing contribution named a
	// branch script other than the one selected for the input.
	ErrBranchScriptMismatch

	// ErrCombinedScriptMismatch indicates a signing contribution named a
	// combined script other than the one the input is spending.
	ErrCombinedScriptMismatch

	// ErrInvalidInputIndex indicates the transaction has no input at the
	// given index.
	ErrInvalidInputIndex

	// ErrInvalidState indicates an operation was invoked on an input in the
	// wrong lifecycle state.
	ErrInvalidState

	// ErrAlreadyFinalized indicates an input whose unlocking script has
	// already been attached was asked to change.
	ErrAlreadyFinalized

	// ErrNoUnlocker indicates there is no unlocker registered for the kind
	// of the selected branch.
	ErrNoUnlocker

	// ErrDuplicateUnlocker indicates an unlocker is already registered for
	// a branch kind.
	ErrDuplicateUnlocker

	// ErrUnknownSigner indicates a signature was contributed by a key that
	// the selected branch script does not commit to.
	ErrUnknownSigner

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrSealedSet:              "ErrSealedSet",
	ErrEmptyBranchSet:         "ErrEmptyBranchSet",
	ErrInvalidBranchIndex:     "ErrInvalidBranchIndex",
	ErrBranchCountMismatch:    "ErrBranchCountMismatch",
	ErrBranchScriptMismatch:   "ErrBranchScriptMismatch",
	ErrCombinedScriptMismatch: "ErrCombinedScriptMismatch",
	ErrInvalidInputIndex:      "ErrInvalidInputIndex",
	ErrInvalidState:           "ErrInvalidState",
	ErrAlreadyFinalized:       "ErrAlreadyFinalized",
	ErrNoUnlocker:             "ErrNoUnlocker",
	ErrDuplicateUnlocker:      "ErrDuplicateUnlocker",
	ErrUnknownSigner:          "ErrUnknownSigner",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a misuse of the composer or assembler.  Every error of this
// type is a violation of the calling contract rather than a transient
// condition, so retrying the same call will fail the same way.  The caller can
// use type assertions or errors.As to access the ErrorCode field.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// branchError creates an Error given a set of arguments.
func branchError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a branchscript
// Error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
