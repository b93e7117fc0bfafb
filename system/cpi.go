// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
)

// Allocate asks the system program to size the data of acct to space bytes.
// acct must still be owned by the system program.
func Allocate(
	ctx context.Context,
	inv accounts.Invoker,
	acct accounts.WritableAccount,
	space uint64,
	signers ...accounts.Seeds,
) error {
	return invoke(ctx, inv, &AllocateArgs{Space: space},
		[]accounts.WritableAccount{acct},
		[]accounts.AccountMeta{accounts.WritableMeta(acct, true)},
		signers,
	)
}

// Assign asks the system program to make owner the owner of acct.
func Assign(
	ctx context.Context,
	inv accounts.Invoker,
	acct accounts.WritableAccount,
	owner codec.Address,
	signers ...accounts.Seeds,
) error {
	return invoke(ctx, inv, &AssignArgs{Owner: owner},
		[]accounts.WritableAccount{acct},
		[]accounts.AccountMeta{accounts.WritableMeta(acct, true)},
		signers,
	)
}

// Transfer moves amount lamports from one system owned account to another
// account.
func Transfer(
	ctx context.Context,
	inv accounts.Invoker,
	from accounts.WritableAccount,
	to accounts.WritableAccount,
	amount uint64,
	signers ...accounts.Seeds,
) error {
	return invoke(ctx, inv, &TransferArgs{Lamports: amount},
		[]accounts.WritableAccount{from, to},
		[]accounts.AccountMeta{
			accounts.WritableMeta(from, true),
			accounts.WritableMeta(to, false),
		},
		signers,
	)
}

// CreateRawAccount funds to with lamports from payer, sizes it to space
// bytes and assigns it to owner in a single call. It writes no
// discriminator, see [CreateAccount] for typed accounts.
func CreateRawAccount(
	ctx context.Context,
	inv accounts.Invoker,
	payer accounts.WritableAccount,
	to accounts.WritableAccount,
	lamports uint64,
	space uint64,
	owner codec.Address,
	signers ...accounts.Seeds,
) error {
	return invoke(ctx, inv, &CreateAccountArgs{Lamports: lamports, Space: space, Owner: owner},
		[]accounts.WritableAccount{payer, to},
		[]accounts.AccountMeta{
			accounts.WritableMeta(payer, true),
			accounts.WritableMeta(to, true),
		},
		signers,
	)
}

func invoke(
	ctx context.Context,
	inv accounts.Invoker,
	args any,
	accts []accounts.WritableAccount,
	metas []accounts.AccountMeta,
	signers []accounts.Seeds,
) error {
	data, err := EncodeInstruction(args)
	if err != nil {
		return err
	}
	infos := make([]*accounts.AccountInfo, len(accts))
	for i, a := range accts {
		infos[i] = a.Info()
	}
	ix := &accounts.Instruction{
		ProgramID: ID,
		Accounts:  metas,
		Data:      data,
	}
	if err := inv.Invoke(ctx, ix, infos, signers...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCpiFailure, InstructionType(binary.LittleEndian.Uint32(data)), err)
	}
	return nil
}
