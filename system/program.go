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

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Program executes system instructions against account handles. It is the
// host side of the calls issued by [Allocate], [Assign], [Transfer] and
// [CreateAccount].
type Program struct {
	log logging.Logger
}

func NewProgram(log logging.Logger) *Program {
	return &Program{log: log}
}

func (*Program) ID() codec.Address {
	return ID
}

// Execute decodes data and applies it to infos, which carry the privileges
// granted by the caller.
func (p *Program) Execute(_ context.Context, _ accounts.Invoker, infos []*accounts.AccountInfo, data []byte) error {
	t, args, err := DecodeInstruction(data)
	if err != nil {
		return err
	}
	p.log.Debug("executing system instruction",
		zap.Stringer("type", t),
		zap.Int("accounts", len(infos)),
	)

	it := accounts.NewIter(infos)
	switch a := args.(type) {
	case *CreateAccountArgs:
		from, to, err := nextTwo(it)
		if err != nil {
			return err
		}
		return p.createAccount(from, to, a)
	case *AssignArgs:
		acct, err := it.Next()
		if err != nil {
			return err
		}
		return assign(acct, a.Owner)
	case *TransferArgs:
		from, to, err := nextTwo(it)
		if err != nil {
			return err
		}
		return transfer(from, to, a.Lamports)
	case *AllocateArgs:
		acct, err := it.Next()
		if err != nil {
			return err
		}
		return allocate(acct, a.Space)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidInstruction, t)
	}
}

func nextTwo(it *accounts.Iter) (*accounts.AccountInfo, *accounts.AccountInfo, error) {
	first, err := it.Next()
	if err != nil {
		return nil, nil, err
	}
	second, err := it.Next()
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (p *Program) createAccount(from, to *accounts.AccountInfo, args *CreateAccountArgs) error {
	if err := requireSigner(to); err != nil {
		return err
	}
	current, err := lamportsOf(to)
	if err != nil {
		return err
	}
	if current > 0 {
		return fmt.Errorf("%w: %s holds %d lamports", ErrAccountAlreadyInUse, to.Key(), current)
	}
	// Funding is checked up front so a failed create leaves to untouched.
	if err := checkTransfer(from, to, args.Lamports); err != nil {
		return err
	}
	if err := allocate(to, args.Space); err != nil {
		return err
	}
	if err := assign(to, args.Owner); err != nil {
		return err
	}
	if err := transfer(from, to, args.Lamports); err != nil {
		return err
	}
	p.log.Debug("created account",
		zap.Stringer("account", to.Key()),
		zap.Stringer("owner", args.Owner),
		zap.Uint64("space", args.Space),
	)
	return nil
}

func requireSigner(a *accounts.AccountInfo) error {
	if !a.IsSigner() {
		return fmt.Errorf("%w: %s", ErrMissingSignature, a.Key())
	}
	if !a.IsWritable() {
		return fmt.Errorf("%w: %s", accounts.ErrNotWritable, a.Key())
	}
	return nil
}

func lamportsOf(a *accounts.AccountInfo) (uint64, error) {
	ref, err := a.TryBorrowLamports()
	if err != nil {
		return 0, err
	}
	defer ref.Release()
	return ref.Value(), nil
}

func allocate(a *accounts.AccountInfo, space uint64) error {
	if err := requireSigner(a); err != nil {
		return err
	}
	if a.DataLen() > 0 || !a.IsOwnedBy(ID) {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, a.Key())
	}
	if space > MaxPermittedDataLength {
		return fmt.Errorf("%w: requested %d, max %d", ErrInvalidAccountDataLength, space, MaxPermittedDataLength)
	}
	if space > uint64(a.Capacity()) {
		return fmt.Errorf("%w: requested %d, capacity %d", ErrInvalidAccountDataLength, space, a.Capacity())
	}
	return a.Resize(int(space), true)
}

func assign(a *accounts.AccountInfo, owner codec.Address) error {
	if a.IsOwnedBy(owner) {
		return nil
	}
	if err := requireSigner(a); err != nil {
		return err
	}
	if !a.IsOwnedBy(ID) {
		return fmt.Errorf("%w: %s is owned by %s", accounts.ErrInvalidOwner, a.Key(), a.Owner())
	}
	a.Assign(owner)
	return nil
}

func checkTransfer(from, to *accounts.AccountInfo, lamports uint64) error {
	if err := requireSigner(from); err != nil {
		return err
	}
	if !to.IsWritable() {
		return fmt.Errorf("%w: %s", accounts.ErrNotWritable, to.Key())
	}
	if from.DataLen() > 0 {
		return fmt.Errorf("%w: %s", ErrFromMustNotCarryData, from.Key())
	}
	if !from.IsOwnedBy(ID) {
		return fmt.Errorf("%w: %s is owned by %s", accounts.ErrInvalidOwner, from.Key(), from.Owner())
	}
	balance, err := lamportsOf(from)
	if err != nil {
		return err
	}
	if balance < lamports {
		return fmt.Errorf("%w: %w: need %d lamports, have %d", ErrInsufficientFunds, accounts.ErrArithmeticOverflow, lamports, balance)
	}
	return nil
}

// transfer moves lamports between two accounts. Both balances are computed
// before either is written, so a failure leaves both unchanged.
func transfer(from, to *accounts.AccountInfo, lamports uint64) error {
	if err := checkTransfer(from, to, lamports); err != nil {
		return err
	}
	if from.Same(to) {
		return nil
	}

	fromRef, err := from.TryBorrowMutLamports()
	if err != nil {
		return err
	}
	defer fromRef.Release()
	toRef, err := to.TryBorrowMutLamports()
	if err != nil {
		return err
	}
	defer toRef.Release()

	newFrom, err := smath.Sub(*fromRef.Value(), lamports)
	if err != nil {
		return fmt.Errorf("%w: %w: need %d lamports, have %d", ErrInsufficientFunds, accounts.ErrArithmeticOverflow, lamports, *fromRef.Value())
	}
	newTo, err := smath.Add(*toRef.Value(), lamports)
	if err != nil {
		return fmt.Errorf("%w: crediting %d lamports to %s", accounts.ErrArithmeticOverflow, lamports, to.Key())
	}
	*fromRef.Value() = newFrom
	*toRef.Value() = newTo
	return nil
}
