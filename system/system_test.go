// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/codectest"
	"github.com/ava-labs/hyperaccounts/consts"
)

type vault struct {
	Balance uint64
	Bump    uint8
}

func (vault) Discriminator() []byte {
	return []byte("vault\x00\x00\x00")
}

// directInvoker hands system instructions straight to a Program, granting
// the callee the privileges requested by the instruction metas.
type directInvoker struct {
	caller  codec.Address
	program *Program
	calls   []InstructionType
}

func newDirectInvoker(caller codec.Address) *directInvoker {
	return &directInvoker{
		caller:  caller,
		program: NewProgram(logging.NoLog{}),
	}
}

func (d *directInvoker) Invoke(ctx context.Context, ix *accounts.Instruction, infos []*accounts.AccountInfo, signers ...accounts.Seeds) error {
	if len(ix.Data) >= consts.Uint32Len {
		d.calls = append(d.calls, InstructionType(binary.LittleEndian.Uint32(ix.Data)))
	}
	signed := set.Set[codec.Address]{}
	for _, seeds := range signers {
		addr, err := accounts.CreateProgramAddress(seeds, d.caller)
		if err != nil {
			return err
		}
		signed.Add(addr)
	}

	views := make([]*accounts.AccountInfo, 0, len(ix.Accounts))
	for _, meta := range ix.Accounts {
		var info *accounts.AccountInfo
		for _, candidate := range infos {
			if candidate.Key() == meta.Key {
				info = candidate
				break
			}
		}
		if info == nil {
			return accounts.ErrNotEnoughAccounts
		}
		isSigner := meta.IsSigner && (info.IsSigner() || signed.Contains(meta.Key))
		views = append(views, info.WithPrivileges(isSigner, meta.IsWritable && info.IsWritable()))
	}
	return d.program.Execute(ctx, d, views, ix.Data)
}

func newWalletInfo(lamports uint64) *accounts.AccountInfo {
	return accounts.NewAccountInfo(codectest.NewRandomAddress(), accounts.Params{
		Owner:      ID,
		Lamports:   lamports,
		IsSigner:   true,
		IsWritable: true,
	})
}

func newWallet(t *testing.T, lamports uint64) *accounts.Mut[*accounts.SystemAccount] {
	return mutSystem(t, newWalletInfo(lamports))
}

func mutSystem(t *testing.T, info *accounts.AccountInfo) *accounts.Mut[*accounts.SystemAccount] {
	require := require.New(t)

	acct, err := accounts.NewSystemAccount(info)
	require.NoError(err)
	m, err := accounts.NewMut(acct)
	require.NoError(err)
	return m
}

func lamportsOfAccount(t *testing.T, a accounts.ReadableAccount) uint64 {
	v, err := balance(a)
	require.NoError(t, err)
	return v
}
