// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	root := t.TempDir()
	p, err := InitSubDirectory(root, "logs")
	require.NoError(err)
	require.Equal(filepath.Join(root, "logs"), p)

	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())

	// Existing directories are left alone.
	_, err = InitSubDirectory(root, "logs")
	require.NoError(err)
}

func TestFormatAndParseBalance(t *testing.T) {
	require := require.New(t)

	testCases := []struct {
		input    uint64
		expected string
	}{
		{1000000000, "1.000000000"},
		{123456789, "0.123456789"},
		{1234567890, "1.234567890"},
		{9876543210, "9.876543210"},
		{890880, "0.000890880"},
		{0, "0.000000000"},
		{^uint64(0), "18446744073.709551615"},
	}

	for _, tc := range testCases {
		formatted := FormatBalance(tc.input)
		require.Equal(tc.expected, formatted)

		parsed, err := ParseBalance(tc.expected)
		require.NoError(err)
		require.Equal(tc.input, parsed)
	}
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		input       string
		expected    uint64
		expectedErr error
	}{
		{input: "2", expected: 2_000_000_000},
		{input: "0.5", expected: 500_000_000},
		{input: "1.", expected: 1_000_000_000},
		{input: "0.0000000001", expectedErr: ErrInvalidBalance},
		{input: "18446744074", expectedErr: ErrInvalidBalance},
		{input: "invalid", expectedErr: strconv.ErrSyntax},
		{input: "1.x", expectedErr: strconv.ErrSyntax},
		{input: "-1", expectedErr: strconv.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)

			parsed, err := ParseBalance(tt.input)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr == nil {
				require.Equal(tt.expected, parsed)
			}
		})
	}
}
