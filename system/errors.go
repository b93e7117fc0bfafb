// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import "errors"

var (
	ErrCpiFailure                = errors.New("cross-program invocation failed")
	ErrAccountAlreadyInUse       = errors.New("account already in use")
	ErrAccountAlreadyInitialized = errors.New("account already initialized")
	ErrInvalidAccountDataLength  = errors.New("invalid account data length")
	ErrMissingSignature          = errors.New("missing required signature")
	ErrInvalidInstruction        = errors.New("invalid instruction data")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrFromMustNotCarryData      = errors.New("from account must not carry data")
)
