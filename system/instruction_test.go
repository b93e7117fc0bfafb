// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperaccounts/codectest"
)

func TestEncodeTransfer(t *testing.T) {
	require := require.New(t)

	data, err := EncodeInstruction(&TransferArgs{Lamports: 0x0102})
	require.NoError(err)
	require.Equal([]byte{2, 0, 0, 0, 0x02, 0x01, 0, 0, 0, 0, 0, 0}, data)
}

func TestEncodeDecodeCreateAccount(t *testing.T) {
	require := require.New(t)

	args := &CreateAccountArgs{
		Lamports: 1_000_000,
		Space:    56,
		Owner:    codectest.NewRandomAddress(),
	}
	data, err := EncodeInstruction(args)
	require.NoError(err)
	require.Len(data, 4+8+8+32)
	require.Equal(args.Owner[:], data[20:])

	typ, decoded, err := DecodeInstruction(data)
	require.NoError(err)
	require.Equal(CreateAccountType, typ)
	require.Equal(args, decoded)
}

func TestEncodeUnsupportedArgs(t *testing.T) {
	_, err := EncodeInstruction(TransferArgs{Lamports: 1})
	require.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestDecodeInstructionErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "missing tag",
			data: []byte{2, 0},
		},
		{
			name: "unknown tag",
			data: []byte{9, 0, 0, 0},
		},
		{
			name: "short body",
			data: []byte{2, 0, 0, 0, 1},
		},
		{
			name: "trailing bytes",
			data: []byte{8, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeInstruction(tt.data)
			require.ErrorIs(t, err, ErrInvalidInstruction)
		})
	}
}
