// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperaccounts/codec"
)

func TestFindProgramAddress(t *testing.T) {
	require := require.New(t)

	seeds := Seeds{[]byte("vault"), {1, 2, 3}}
	addr, bump, err := FindProgramAddress(seeds, testProgramID)
	require.NoError(err)
	require.False(IsOnCurve(addr))

	derived, err := CreateProgramAddress(append(seeds, []byte{bump}), testProgramID)
	require.NoError(err)
	require.Equal(addr, derived)

	// a different program derives a different address
	otherAddr, _, err := FindProgramAddress(seeds, codec.Address{1})
	require.NoError(err)
	require.NotEqual(addr, otherAddr)
}

func TestCreateProgramAddressLimits(t *testing.T) {
	require := require.New(t)

	_, err := CreateProgramAddress(Seeds{make([]byte, MaxSeedLen+1)}, testProgramID)
	require.ErrorIs(err, ErrMaxSeedLength)

	_, err = CreateProgramAddress(make(Seeds, MaxSeeds+1), testProgramID)
	require.ErrorIs(err, ErrMaxSeedLength)

	_, _, err = FindProgramAddress(make(Seeds, MaxSeeds), testProgramID)
	require.ErrorIs(err, ErrMaxSeedLength)
}

func TestIsOnCurve(t *testing.T) {
	require := require.New(t)

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	addr, err := codec.ToAddress(pub)
	require.NoError(err)
	require.True(IsOnCurve(addr))
}
