// Copyright (c) 2026 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package branchdb

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrSetNotFound indicates no branch set is stored under the requested
	// script hash.
	ErrSetNotFound ErrorCode = iota

	// ErrCorruptSet indicates a stored branch set could not be decoded or
	// no longer hashes to the key it is stored under.
	ErrCorruptSet

	// ErrNotScriptHash indicates an address that does not pay to a script
	// hash was used to look up a branch set.
	ErrNotScriptHash

	// ErrUnknownDBType indicates an unsupported database backend was
	// requested.
	ErrUnknownDBType

	// ErrDriver indicates the underlying storage engine failed.  The Err
	// field holds the engine error.
	ErrDriver

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrSetNotFound:   "ErrSetNotFound",
	ErrCorruptSet:    "ErrCorruptSet",
	ErrNotScriptHash: "ErrNotScriptHash",
	ErrUnknownDBType: "ErrUnknownDBType",
	ErrDriver:        "ErrDriver",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen while storing or
// loading branch sets.  Err is set when the error originated in the storage
// engine.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying engine error, if any.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsErrorCode returns whether or not the provided error is a branchdb Error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
