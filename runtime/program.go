// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"crypto/sha256"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/system"
)

// LoaderID owns the executable accounts of registered programs.
var LoaderID = codec.Address(sha256.Sum256([]byte("NativeLoader")))

// Program is native code the runtime dispatches instructions to.
//
// Execute receives the accounts named by the instruction with the
// privileges granted to it and may call other programs through inv.
type Program interface {
	ID() codec.Address
	Execute(ctx context.Context, inv accounts.Invoker, infos []*accounts.AccountInfo, data []byte) error
}

var _ Program = (*system.Program)(nil)
