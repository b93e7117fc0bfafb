// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
)

// CreateParams configures the account creation protocol.
type CreateParams struct {
	Rent Rent
	// Payer funds the new account. It must sign.
	Payer accounts.WritableAccount
	// Owner is the program that will own the new account.
	Owner codec.Address
	// Space is the data length of the new account.
	Space int
	// Seeds sign for the new account when it is a program derived address.
	// They are not needed when the new account signed the transaction.
	Seeds []accounts.Seeds
	// Log defaults to a no-op logger.
	Log logging.Logger
}

func (p *CreateParams) log() logging.Logger {
	if p.Log == nil {
		return logging.NoLog{}
	}
	return p.Log
}

// CreateOrAssign funds target up to the rent exempt minimum for p.Space,
// sizes it and hands it to p.Owner.
//
// An unfunded target is created with a single system call. A target that
// already holds lamports is topped up from the payer and then allocated and
// assigned separately, since the system program refuses to create accounts
// that hold lamports.
//
// A target that is not owned by the system program is rejected with
// [ErrAccountAlreadyInitialized].
func CreateOrAssign(ctx context.Context, inv accounts.Invoker, target accounts.WritableAccount, p CreateParams) error {
	log := p.log()
	if p.Space < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAccountDataLength, p.Space)
	}
	if !target.IsOwnedBy(ID) {
		return fmt.Errorf("%w: %s is owned by %s", ErrAccountAlreadyInitialized, target.Key(), target.Info().Owner())
	}

	required := p.Rent.MinimumBalance(p.Space)
	current, err := balance(target)
	if err != nil {
		return err
	}

	if current == 0 {
		if err := CreateRawAccount(ctx, inv, p.Payer, target, required, uint64(p.Space), p.Owner, p.Seeds...); err != nil {
			return err
		}
		log.Debug("created account",
			zap.Stringer("account", target.Key()),
			zap.Stringer("owner", p.Owner),
			zap.Uint64("lamports", required),
			zap.Int("space", p.Space),
		)
		return nil
	}

	if current < required {
		if err := Transfer(ctx, inv, p.Payer, target, required-current); err != nil {
			return err
		}
		log.Debug("funded account",
			zap.Stringer("account", target.Key()),
			zap.Uint64("lamports", required-current),
		)
	}
	if err := Allocate(ctx, inv, target, uint64(p.Space), p.Seeds...); err != nil {
		return err
	}
	log.Debug("allocated account",
		zap.Stringer("account", target.Key()),
		zap.Int("space", p.Space),
	)
	if err := Assign(ctx, inv, target, p.Owner, p.Seeds...); err != nil {
		return err
	}
	log.Debug("assigned account",
		zap.Stringer("account", target.Key()),
		zap.Stringer("owner", p.Owner),
	)
	return nil
}

// CreateAccount runs [CreateOrAssign] for a T record and then writes the
// discriminator of T at the start of the data. The returned handle is
// writable and typed.
//
// Any failure is returned immediately and leaves the remaining steps
// unexecuted; the environment discards the partial effects with the failed
// instruction.
func CreateAccount[T codec.Record](
	ctx context.Context,
	inv accounts.Invoker,
	target accounts.WritableAccount,
	p CreateParams,
) (*accounts.Mut[*accounts.Account[T]], error) {
	disc := codec.DiscriminatorOf[T]()
	if p.Space < len(disc) {
		return nil, fmt.Errorf("%w: %d bytes cannot hold a %d byte discriminator", ErrInvalidAccountDataLength, p.Space, len(disc))
	}
	if err := CreateOrAssign(ctx, inv, target, p); err != nil {
		return nil, err
	}

	info := target.Info()
	err := info.WithDataMut(func(data []byte) error {
		if len(data) < len(disc) {
			return fmt.Errorf("%w: %s holds %d bytes after allocation", ErrInvalidAccountDataLength, info.Key(), len(data))
		}
		copy(data, disc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	p.log().Debug("tagged account",
		zap.Stringer("account", info.Key()),
		zap.Binary("discriminator", disc),
	)
	return accounts.FromRawInfo[T](info, p.Owner), nil
}

func balance(a accounts.ReadableAccount) (uint64, error) {
	ref, err := a.Lamports()
	if err != nil {
		return 0, err
	}
	defer ref.Release()
	return ref.Value(), nil
}
