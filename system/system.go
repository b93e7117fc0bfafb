// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package system talks to the system program: the service that moves
// lamports between accounts, allocates account data and assigns accounts to
// their owning programs. It also carries the account creation protocol that
// turns a fresh account into a tagged record owned by the calling program.
package system

import (
	"github.com/ava-labs/avalanchego/utils/units"

	"github.com/ava-labs/hyperaccounts/codec"
)

// MaxPermittedDataLength is the largest data buffer the system program will
// allocate.
const MaxPermittedDataLength = 10 * units.MiB

// ID is the address of the system program. Accounts nobody has claimed are
// owned by it.
var ID = codec.EmptyAddress
