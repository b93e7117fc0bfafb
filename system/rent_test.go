// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinimumBalance(t *testing.T) {
	tests := []struct {
		name    string
		rent    Rent
		dataLen int
		want    uint64
	}{
		{
			name:    "empty account",
			rent:    DefaultRent(),
			dataLen: 0,
			want:    890_880,
		},
		{
			name:    "token sized account",
			rent:    DefaultRent(),
			dataLen: 165,
			want:    2_039_280,
		},
		{
			name:    "fractional threshold",
			rent:    Rent{LamportsPerByteYear: 10, ExemptionThreshold: 0.5},
			dataLen: 2,
			want:    650,
		},
		{
			name:    "free storage",
			rent:    Rent{},
			dataLen: 1024,
			want:    0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.rent.MinimumBalance(tt.dataLen))
		})
	}
}

func TestIsExempt(t *testing.T) {
	require := require.New(t)

	r := DefaultRent()
	minimum := r.MinimumBalance(56)
	require.True(r.IsExempt(minimum, 56))
	require.False(r.IsExempt(minimum-1, 56))
	require.False(r.IsExempt(minimum, 57))
}
