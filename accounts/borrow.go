// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

// exclusiveBorrow marks a cell that is mutably borrowed.
const exclusiveBorrow = -1

// borrowState tracks outstanding borrows of one cell of an [AccountInfo].
// A positive count is the number of shared borrows.
type borrowState struct {
	count int32
}

func (b *borrowState) acquireShared() error {
	if b.count == exclusiveBorrow {
		return ErrBorrowConflict
	}
	b.count++
	return nil
}

func (b *borrowState) acquireExclusive() error {
	if b.count != 0 {
		return ErrBorrowConflict
	}
	b.count = exclusiveBorrow
	return nil
}

func (b *borrowState) releaseShared() {
	if b.count > 0 {
		b.count--
	}
}

func (b *borrowState) releaseExclusive() {
	if b.count == exclusiveBorrow {
		b.count = 0
	}
}

func (b *borrowState) check(exclusive bool) error {
	if b.count == exclusiveBorrow || (exclusive && b.count != 0) {
		return ErrBorrowConflict
	}
	return nil
}

// Ref is a shared borrow of a cell. The borrow is held until Release is
// called; callers should defer Release right after a successful borrow.
//
// Value must not be used after Release.
type Ref[V any] struct {
	value   V
	release func()
}

func newRef[V any](value V, b *borrowState) *Ref[V] {
	return &Ref[V]{value: value, release: b.releaseShared}
}

// Value returns the borrowed value.
func (r *Ref[V]) Value() V {
	return r.value
}

// Release gives up the borrow. Calling Release more than once is a no-op.
func (r *Ref[V]) Release() {
	if r.release == nil {
		return
	}
	r.release()
	r.release = nil
	var zero V
	r.value = zero
}

// mapRef moves the borrow held by r into a new Ref wrapping value.
func mapRef[V, W any](r *Ref[V], value W) *Ref[W] {
	out := &Ref[W]{value: value, release: r.release}
	r.release = nil
	var zero V
	r.value = zero
	return out
}

// RefMut is an exclusive borrow of a cell. While a RefMut is held no other
// borrow of the same cell can be acquired.
//
// Value must not be used after Release.
type RefMut[V any] struct {
	value   V
	release func()
}

func newRefMut[V any](value V, b *borrowState) *RefMut[V] {
	return &RefMut[V]{value: value, release: b.releaseExclusive}
}

// Value returns the borrowed value.
func (r *RefMut[V]) Value() V {
	return r.value
}

// Release gives up the borrow. Calling Release more than once is a no-op.
func (r *RefMut[V]) Release() {
	if r.release == nil {
		return
	}
	r.release()
	r.release = nil
	var zero V
	r.value = zero
}

func mapRefMut[V, W any](r *RefMut[V], value W) *RefMut[W] {
	out := &RefMut[W]{value: value, release: r.release}
	r.release = nil
	var zero V
	r.value = zero
	return out
}
