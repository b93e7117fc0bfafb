// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

// Iter hands out the accounts of an instruction in order.
type Iter struct {
	infos []*AccountInfo
	next  int
}

func NewIter(infos []*AccountInfo) *Iter {
	return &Iter{infos: infos}
}

// Next returns the next account or [ErrNotEnoughAccounts].
func (it *Iter) Next() (*AccountInfo, error) {
	if it.next >= len(it.infos) {
		return nil, ErrNotEnoughAccounts
	}
	info := it.infos[it.next]
	it.next++
	return info, nil
}

// Remaining returns the accounts not yet handed out.
func (it *Iter) Remaining() []*AccountInfo {
	return it.infos[it.next:]
}
