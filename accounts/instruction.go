// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"context"

	"github.com/ava-labs/hyperaccounts/codec"
)

// AccountMeta describes how an instruction uses one account.
type AccountMeta struct {
	Key        codec.Address `json:"key"`
	IsSigner   bool          `json:"isSigner"`
	IsWritable bool          `json:"isWritable"`
}

// Instruction is a call into a program.
type Instruction struct {
	ProgramID codec.Address
	Accounts  []AccountMeta
	Data      []byte
}

// Invoker performs a nested, synchronous call into another program. infos
// must contain a handle for every account named by ix. signers carries the
// seeds of program derived addresses the calling program signs for.
//
// An error from Invoke aborts the calling instruction.
type Invoker interface {
	Invoke(ctx context.Context, ix *Instruction, infos []*AccountInfo, signers ...Seeds) error
}

// ReadonlyMeta returns a meta for a that is neither signer nor writable.
func ReadonlyMeta(a ReadableAccount) AccountMeta {
	return AccountMeta{Key: a.Key()}
}

// WritableMeta returns a writable meta for a.
func WritableMeta(a WritableAccount, isSigner bool) AccountMeta {
	return AccountMeta{Key: a.Key(), IsSigner: isSigner, IsWritable: true}
}
