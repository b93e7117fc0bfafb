// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import "errors"

var (
	ErrNotEnoughAccounts    = errors.New("not enough accounts")
	ErrInvalidOwner         = errors.New("invalid owner")
	ErrInvalidDiscriminator = errors.New("invalid discriminator")
	ErrDeserialization      = errors.New("deserialization error")
	ErrBorrowConflict       = errors.New("borrow conflict")
	ErrArithmeticOverflow   = errors.New("arithmetic overflow")
	ErrNotWritable          = errors.New("account not writable")
	ErrNotSigner            = errors.New("account not signer")
	ErrInvalidRealloc       = errors.New("invalid realloc")
	ErrInvalidProgram       = errors.New("invalid program")
	ErrInvalidSeeds         = errors.New("invalid seeds")
	ErrMaxSeedLength        = errors.New("max seed length exceeded")
)
