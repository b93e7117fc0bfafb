// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"fmt"
	"slices"

	"github.com/ava-labs/hyperaccounts/codec"
)

var (
	_ ReadableAccount = (*SystemAccount)(nil)
	_ ReadableAccount = (*UncheckedAccount)(nil)
	_ ReadableAccount = (*Program)(nil)
	_ SignerAccount   = (*Signer)(nil)
	_ SignerAccount   = (*MutSigner)(nil)
	_ WritableAccount = (*MutSigner)(nil)
)

// ReadableAccount is a view over an [AccountInfo] that allows shared access.
type ReadableAccount interface {
	Info() *AccountInfo
	Key() codec.Address
	IsOwnedBy(owner codec.Address) bool
	Lamports() (*Ref[uint64], error)
	RawData() (*Ref[[]byte], error)
}

// WritableAccount additionally allows mutation. It can only be obtained
// through [NewMut].
type WritableAccount interface {
	ReadableAccount

	Assign(owner codec.Address)
	Realloc(newLen int, zeroInit bool) error
	MutLamports() (*RefMut[*uint64], error)
	MutData() (*RefMut[[]byte], error)

	writable()
}

// SignerAccount proves the account signed the transaction. It can only be
// obtained through [NewSigner] or [NewMutSigner].
type SignerAccount interface {
	ReadableAccount

	signer()
}

// dataChecker is implemented by views that restrict what the data buffer
// may contain.
type dataChecker interface {
	checkData(data []byte) error
}

// base carries the handle shared by every view.
type base struct {
	info *AccountInfo
}

func (b base) Info() *AccountInfo {
	return b.info
}

func (b base) Key() codec.Address {
	return b.info.Key()
}

func (b base) IsOwnedBy(owner codec.Address) bool {
	return b.info.IsOwnedBy(owner)
}

func (b base) Lamports() (*Ref[uint64], error) {
	return b.info.TryBorrowLamports()
}

// RawData returns a shared borrow of the untyped data buffer.
func (b base) RawData() (*Ref[[]byte], error) {
	return b.info.TryBorrowData()
}

// Account is an account owned by one of a set of programs holding a T.
type Account[T codec.Record] struct {
	base
	owners []codec.Address
}

// NewAccount checks that info is owned by programID and tagged with the
// discriminator of T.
func NewAccount[T codec.Record](info *AccountInfo, programID codec.Address) (*Account[T], error) {
	return NewAccountOwnedBy[T](info, programID)
}

// NewAccountOwnedBy is [NewAccount] for records that any of owners may hold,
// such as a record shared by several versions of a program.
func NewAccountOwnedBy[T codec.Record](info *AccountInfo, owners ...codec.Address) (*Account[T], error) {
	if len(owners) == 0 {
		return nil, fmt.Errorf("%w: no owners given for %s", ErrInvalidOwner, info.Key())
	}
	a := &Account[T]{base: base{info: info}, owners: slices.Clone(owners)}
	if err := info.WithData(a.checkData); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Account[T]) checkData(data []byte) error {
	if !slices.Contains(a.owners, a.info.Owner()) {
		return fmt.Errorf("%w: %s is owned by %s, expected one of %v", ErrInvalidOwner, a.info.Key(), a.info.Owner(), a.owners)
	}
	if !codec.HasDiscriminator[T](data) {
		return fmt.Errorf("%w: %s", ErrInvalidDiscriminator, a.info.Key())
	}
	return nil
}

func (a *Account[T]) view(data []byte) (*T, error) {
	if err := a.checkData(data); err != nil {
		return nil, err
	}
	v, ok := codec.Read[T](data)
	if !ok {
		return nil, fmt.Errorf("%w: %s holds %d bytes, need %d", ErrDeserialization, a.info.Key(), len(data), codec.Space[T]())
	}
	return v, nil
}

// Data returns a shared borrow of the record. Ownership and the
// discriminator are checked again on every call.
func (a *Account[T]) Data() (*Ref[*T], error) {
	ref, err := a.info.TryBorrowData()
	if err != nil {
		return nil, err
	}
	v, err := a.view(ref.Value())
	if err != nil {
		ref.Release()
		return nil, err
	}
	return mapRef(ref, v), nil
}

// Owners returns the programs the account may be owned by.
func (a *Account[T]) Owners() []codec.Address {
	return slices.Clone(a.owners)
}

// SystemAccount is an account owned by the system program.
type SystemAccount struct {
	base
}

func NewSystemAccount(info *AccountInfo) (*SystemAccount, error) {
	if !info.IsOwnedBy(codec.EmptyAddress) {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrInvalidOwner, info.Key(), info.Owner())
	}
	return &SystemAccount{base: base{info: info}}, nil
}

// UncheckedAccount performs no validation.
type UncheckedAccount struct {
	base
}

func NewUncheckedAccount(info *AccountInfo) *UncheckedAccount {
	return &UncheckedAccount{base: base{info: info}}
}

// Program is the executable account of a known program.
type Program struct {
	base
}

func NewProgram(info *AccountInfo, id codec.Address) (*Program, error) {
	return NewProgramOf(info, id)
}

// NewProgramOf accepts the executable account of any of ids.
func NewProgramOf(info *AccountInfo, ids ...codec.Address) (*Program, error) {
	if !slices.Contains(ids, info.Key()) {
		return nil, fmt.Errorf("%w: expected one of %v, found %s", ErrInvalidProgram, ids, info.Key())
	}
	if !info.Executable() {
		return nil, fmt.Errorf("%w: %s is not executable", ErrInvalidProgram, info.Key())
	}
	return &Program{base: base{info: info}}, nil
}

// Signer is an account whose signer flag was set.
type Signer struct {
	base
}

func NewSigner(info *AccountInfo) (*Signer, error) {
	if !info.IsSigner() {
		return nil, fmt.Errorf("%w: %s", ErrNotSigner, info.Key())
	}
	return &Signer{base: base{info: info}}, nil
}

func (*Signer) signer() {}

// MutSigner is a writable signer, such as the payer of a new account.
type MutSigner struct {
	*Mut[*Signer]
}

// NewMutSigner grants write access to s when its account is writable.
func NewMutSigner(s *Signer) (*MutSigner, error) {
	m, err := NewMut(s)
	if err != nil {
		return nil, err
	}
	return &MutSigner{Mut: m}, nil
}

func (*MutSigner) signer() {}

// Mut grants write access to the account viewed by A.
type Mut[A ReadableAccount] struct {
	inner A
}

// NewMut wraps a when its account is writable.
func NewMut[A ReadableAccount](a A) (*Mut[A], error) {
	info := a.Info()
	if !info.IsWritable() {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, info.Key())
	}
	return &Mut[A]{inner: a}, nil
}

// Inner returns the wrapped view.
func (m *Mut[A]) Inner() A {
	return m.inner
}

func (m *Mut[A]) Info() *AccountInfo {
	return m.inner.Info()
}

func (m *Mut[A]) Key() codec.Address {
	return m.inner.Key()
}

func (m *Mut[A]) IsOwnedBy(owner codec.Address) bool {
	return m.inner.IsOwnedBy(owner)
}

func (m *Mut[A]) Lamports() (*Ref[uint64], error) {
	return m.inner.Lamports()
}

func (m *Mut[A]) RawData() (*Ref[[]byte], error) {
	return m.inner.RawData()
}

// Assign changes the owner. The data buffer is left as is and may no longer
// be a valid record for the new owner.
func (m *Mut[A]) Assign(owner codec.Address) {
	m.Info().Assign(owner)
}

// Realloc resizes the data buffer. See [AccountInfo.Resize].
func (m *Mut[A]) Realloc(newLen int, zeroInit bool) error {
	return m.Info().Resize(newLen, zeroInit)
}

func (m *Mut[A]) MutLamports() (*RefMut[*uint64], error) {
	return m.Info().TryBorrowMutLamports()
}

// MutData returns an exclusive borrow of the raw data buffer. When the
// wrapped view restricts its data (as [Account] does) the restriction is
// checked first.
func (m *Mut[A]) MutData() (*RefMut[[]byte], error) {
	ref, err := m.Info().TryBorrowMutData()
	if err != nil {
		return nil, err
	}
	if c, ok := any(m.inner).(dataChecker); ok {
		if err := c.checkData(ref.Value()); err != nil {
			ref.Release()
			return nil, err
		}
	}
	return ref, nil
}

func (*Mut[A]) writable() {}

// MutDataOf returns an exclusive borrow of the record held by m.
func MutDataOf[T codec.Record](m *Mut[*Account[T]]) (*RefMut[*T], error) {
	ref, err := m.Info().TryBorrowMutData()
	if err != nil {
		return nil, err
	}
	v, err := m.inner.view(ref.Value())
	if err != nil {
		ref.Release()
		return nil, err
	}
	return mapRefMut(ref, v), nil
}

// FromRawInfo wraps info as a writable typed account without any checks. It
// is used once the caller has itself established ownership and tagging.
func FromRawInfo[T codec.Record](info *AccountInfo, programID codec.Address) *Mut[*Account[T]] {
	return &Mut[*Account[T]]{inner: &Account[T]{base: base{info: info}, owners: []codec.Address{programID}}}
}
