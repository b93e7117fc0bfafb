// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"fmt"

	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/hyperaccounts/codec"
)

// MaxPermittedDataIncrease is the default number of bytes an account may
// grow by during a single instruction.
const MaxPermittedDataIncrease = 10 * units.KiB

// Params describes the state an [AccountInfo] starts an instruction with.
type Params struct {
	Owner      codec.Address
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
	Executable bool

	// MaxDataIncrease is how far the data buffer may grow past its initial
	// length. Zero means [MaxPermittedDataIncrease].
	MaxDataIncrease int
}

// accountState is the part of an account shared by every handle to it.
type accountState struct {
	key        codec.Address
	owner      codec.Address
	lamports   uint64
	data       []byte
	executable bool

	lamportsBorrow borrowState
	dataBorrow     borrowState
}

// AccountInfo is the raw handle of an account for the duration of one
// instruction. The lamports and data cells are guarded independently: each
// allows any number of shared borrows or a single exclusive borrow.
//
// AccountInfo is not safe for concurrent use.
type AccountInfo struct {
	s          *accountState
	isSigner   bool
	isWritable bool
}

// NewAccountInfo returns a handle over a copy of p.Data. The buffer reserves
// p.MaxDataIncrease bytes of capacity for growth.
func NewAccountInfo(key codec.Address, p Params) *AccountInfo {
	increase := p.MaxDataIncrease
	if increase <= 0 {
		increase = MaxPermittedDataIncrease
	}
	data := make([]byte, len(p.Data), len(p.Data)+increase)
	copy(data, p.Data)
	return &AccountInfo{
		s: &accountState{
			key:        key,
			owner:      p.Owner,
			lamports:   p.Lamports,
			data:       data,
			executable: p.Executable,
		},
		isSigner:   p.IsSigner,
		isWritable: p.IsWritable,
	}
}

// WithPrivileges returns a second handle to the same account carrying the
// given flags. Both handles share cells and borrow state. It is used to hand
// an account to a nested call.
func (a *AccountInfo) WithPrivileges(isSigner bool, isWritable bool) *AccountInfo {
	return &AccountInfo{
		s:          a.s,
		isSigner:   isSigner,
		isWritable: isWritable,
	}
}

// Same reports whether a and other are handles to the same account.
func (a *AccountInfo) Same(other *AccountInfo) bool {
	return a.s == other.s
}

func (a *AccountInfo) Key() codec.Address {
	return a.s.key
}

func (a *AccountInfo) Owner() codec.Address {
	return a.s.owner
}

// IsOwnedBy reports whether the account is currently owned by owner.
func (a *AccountInfo) IsOwnedBy(owner codec.Address) bool {
	return a.s.owner == owner
}

func (a *AccountInfo) IsSigner() bool {
	return a.isSigner
}

func (a *AccountInfo) IsWritable() bool {
	return a.isWritable
}

func (a *AccountInfo) Executable() bool {
	return a.s.executable
}

// DataLen returns the current logical length of the data buffer.
func (a *AccountInfo) DataLen() int {
	return len(a.s.data)
}

// Capacity returns the largest length the data buffer can be resized to.
func (a *AccountInfo) Capacity() int {
	return cap(a.s.data)
}

// Assign sets the owner of the account. It does not touch the data buffer.
func (a *AccountInfo) Assign(owner codec.Address) {
	a.s.owner = owner
}

// Resize changes the logical length of the data buffer. Shrinking keeps the
// reserved capacity. When zeroInit is set, bytes exposed by growth are zeroed.
// Resize fails if the data cell is borrowed.
func (a *AccountInfo) Resize(newLen int, zeroInit bool) error {
	if newLen < 0 || newLen > cap(a.s.data) {
		return fmt.Errorf("%w: requested %d bytes, capacity %d", ErrInvalidRealloc, newLen, cap(a.s.data))
	}
	if err := a.s.dataBorrow.check(true); err != nil {
		return err
	}
	oldLen := len(a.s.data)
	a.s.data = a.s.data[:newLen]
	if zeroInit && newLen > oldLen {
		clear(a.s.data[oldLen:])
	}
	return nil
}

func (a *AccountInfo) TryBorrowLamports() (*Ref[uint64], error) {
	if err := a.s.lamportsBorrow.acquireShared(); err != nil {
		return nil, fmt.Errorf("%w: lamports of %s", err, a.s.key)
	}
	return newRef(a.s.lamports, &a.s.lamportsBorrow), nil
}

func (a *AccountInfo) TryBorrowMutLamports() (*RefMut[*uint64], error) {
	if err := a.s.lamportsBorrow.acquireExclusive(); err != nil {
		return nil, fmt.Errorf("%w: lamports of %s", err, a.s.key)
	}
	return newRefMut(&a.s.lamports, &a.s.lamportsBorrow), nil
}

func (a *AccountInfo) TryBorrowData() (*Ref[[]byte], error) {
	if err := a.s.dataBorrow.acquireShared(); err != nil {
		return nil, fmt.Errorf("%w: data of %s", err, a.s.key)
	}
	return newRef(a.s.data, &a.s.dataBorrow), nil
}

func (a *AccountInfo) TryBorrowMutData() (*RefMut[[]byte], error) {
	if err := a.s.dataBorrow.acquireExclusive(); err != nil {
		return nil, fmt.Errorf("%w: data of %s", err, a.s.key)
	}
	return newRefMut(a.s.data, &a.s.dataBorrow), nil
}

// CheckBorrowMut returns an error if either cell could not be mutably
// borrowed right now.
func (a *AccountInfo) CheckBorrowMut() error {
	if err := a.s.lamportsBorrow.check(true); err != nil {
		return fmt.Errorf("%w: lamports of %s", err, a.s.key)
	}
	if err := a.s.dataBorrow.check(true); err != nil {
		return fmt.Errorf("%w: data of %s", err, a.s.key)
	}
	return nil
}

// WithData calls f with a shared borrow of the data buffer that is released
// when f returns.
func (a *AccountInfo) WithData(f func([]byte) error) error {
	ref, err := a.TryBorrowData()
	if err != nil {
		return err
	}
	defer ref.Release()
	return f(ref.Value())
}

// WithDataMut calls f with an exclusive borrow of the data buffer that is
// released when f returns.
func (a *AccountInfo) WithDataMut(f func([]byte) error) error {
	ref, err := a.TryBorrowMutData()
	if err != nil {
		return err
	}
	defer ref.Release()
	return f(ref.Value())
}

// Snapshot is a copy of the persistent fields of an account.
type Snapshot struct {
	Key        codec.Address
	Owner      codec.Address
	Lamports   uint64
	Data       []byte
	Executable bool
}

// Snapshot copies the persistent fields of the account. It fails if either
// cell is exclusively borrowed.
func (a *AccountInfo) Snapshot() (Snapshot, error) {
	if err := a.s.lamportsBorrow.check(false); err != nil {
		return Snapshot{}, fmt.Errorf("%w: lamports of %s", err, a.s.key)
	}
	if err := a.s.dataBorrow.check(false); err != nil {
		return Snapshot{}, fmt.Errorf("%w: data of %s", err, a.s.key)
	}
	data := make([]byte, len(a.s.data))
	copy(data, a.s.data)
	return Snapshot{
		Key:        a.s.key,
		Owner:      a.s.owner,
		Lamports:   a.s.lamports,
		Data:       data,
		Executable: a.s.executable,
	}, nil
}
