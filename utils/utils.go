// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// NativeDecimals is the number of lamport digits in one unit of the native
// token.
const NativeDecimals = 9

const lamportsPerUnit = 1_000_000_000

var ErrInvalidBalance = errors.New("invalid balance")

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := filepath.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// FormatBalance renders lamports as a decimal amount of the native token.
func FormatBalance(lamports uint64) string {
	return fmt.Sprintf("%d.%09d", lamports/lamportsPerUnit, lamports%lamportsPerUnit)
}

// ParseBalance is the inverse of [FormatBalance]. Up to [NativeDecimals]
// fractional digits are accepted.
func ParseBalance(bal string) (uint64, error) {
	whole, frac, _ := strings.Cut(bal, ".")
	if len(frac) > NativeDecimals {
		return 0, fmt.Errorf("%w: more than %d decimals in %q", ErrInvalidBalance, NativeDecimals, bal)
	}
	units, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	var lamports uint64
	if len(frac) > 0 {
		lamports, err = strconv.ParseUint(frac+strings.Repeat("0", NativeDecimals-len(frac)), 10, 64)
		if err != nil {
			return 0, err
		}
	}
	units, err = smath.Mul(units, lamportsPerUnit)
	if err != nil {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidBalance, bal)
	}
	total, err := smath.Add(units, lamports)
	if err != nil {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidBalance, bal)
	}
	return total, nil
}
