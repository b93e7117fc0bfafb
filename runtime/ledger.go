// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/near/borsh-go"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/system"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// StoredAccount is the state of an account between instructions.
type StoredAccount struct {
	Owner      codec.Address `json:"owner"`
	Lamports   uint64        `json:"lamports"`
	Data       []byte        `json:"data"`
	Executable bool          `json:"executable"`
}

func storedFromSnapshot(s accounts.Snapshot) StoredAccount {
	return StoredAccount{
		Owner:      s.Owner,
		Lamports:   s.Lamports,
		Data:       s.Data,
		Executable: s.Executable,
	}
}

// Ledger holds borsh encoded accounts in memory. Accounts that were never
// written read as empty accounts owned by the system program.
type Ledger struct {
	lock     sync.RWMutex
	accounts map[codec.Address][]byte
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[codec.Address][]byte)}
}

// Get returns the account stored at addr and whether it exists.
func (l *Ledger) Get(addr codec.Address) (StoredAccount, bool, error) {
	l.lock.RLock()
	raw, ok := l.accounts[addr]
	l.lock.RUnlock()

	if !ok {
		return StoredAccount{Owner: system.ID}, false, nil
	}
	var acct StoredAccount
	if err := borsh.Deserialize(&acct, raw); err != nil {
		return StoredAccount{}, false, fmt.Errorf("failed to decode account %s: %w", addr, err)
	}
	return acct, true, nil
}

// Put stores acct at addr. An account without lamports is removed.
func (l *Ledger) Put(addr codec.Address, acct StoredAccount) error {
	return l.commit(map[codec.Address]StoredAccount{addr: acct})
}

// Fund credits lamports to addr, creating a system account if needed.
func (l *Ledger) Fund(addr codec.Address, lamports uint64) error {
	acct, _, err := l.Get(addr)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(acct.Lamports, lamports)
	if err != nil {
		return fmt.Errorf("%w: invalid balance (account=%s, bal=%d, add=%d)", accounts.ErrArithmeticOverflow, addr, acct.Lamports, lamports)
	}
	acct.Lamports = nbal
	return l.Put(addr, acct)
}

// Keys returns the addresses of all stored accounts in byte order.
func (l *Ledger) Keys() []codec.Address {
	l.lock.RLock()
	keys := maps.Keys(l.accounts)
	l.lock.RUnlock()

	slices.SortFunc(keys, func(a, b codec.Address) int {
		return bytes.Compare(a[:], b[:])
	})
	return keys
}

// TotalLamports sums the balances of every stored account.
func (l *Ledger) TotalLamports() (uint64, error) {
	var total uint64
	for _, addr := range l.Keys() {
		acct, _, err := l.Get(addr)
		if err != nil {
			return 0, err
		}
		total, err = smath.Add(total, acct.Lamports)
		if err != nil {
			return 0, accounts.ErrArithmeticOverflow
		}
	}
	return total, nil
}

// commit encodes every account before writing any of them so a failure
// leaves the ledger unchanged.
func (l *Ledger) commit(updates map[codec.Address]StoredAccount) error {
	encoded := make(map[codec.Address][]byte, len(updates))
	for addr, acct := range updates {
		if acct.Lamports == 0 {
			encoded[addr] = nil
			continue
		}
		raw, err := borsh.Serialize(acct)
		if err != nil {
			return fmt.Errorf("failed to encode account %s: %w", addr, err)
		}
		encoded[addr] = raw
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	for addr, raw := range encoded {
		if raw == nil {
			delete(l.accounts, addr)
			continue
		}
		l.accounts[addr] = raw
	}
	return nil
}
