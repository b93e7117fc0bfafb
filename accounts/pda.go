// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package accounts

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"

	"github.com/ava-labs/hyperaccounts/codec"
)

const (
	MaxSeeds   = 16
	MaxSeedLen = 32

	pdaMarker = "ProgramDerivedAddress"
)

// Seeds are the inputs a program used to derive one of its addresses. A
// program passes them with a cross-program call to sign for that address.
type Seeds [][]byte

// IsOnCurve reports whether addr decodes to an ed25519 point. Program derived
// addresses are never on the curve, so no private key exists for them.
func IsOnCurve(addr codec.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(addr[:])
	return err == nil
}

// CreateProgramAddress derives sha256(seeds || programID || marker) and fails
// if the result is on the curve.
func CreateProgramAddress(seeds Seeds, programID codec.Address) (codec.Address, error) {
	if len(seeds) > MaxSeeds {
		return codec.EmptyAddress, fmt.Errorf("%w: %d seeds, max %d", ErrMaxSeedLength, len(seeds), MaxSeeds)
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return codec.EmptyAddress, fmt.Errorf("%w: seed of %d bytes, max %d", ErrMaxSeedLength, len(seed), MaxSeedLen)
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr codec.Address
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return codec.EmptyAddress, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 down to 0 and returns the
// first address that is off the curve along with its bump.
func FindProgramAddress(seeds Seeds, programID codec.Address) (codec.Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return codec.EmptyAddress, 0, fmt.Errorf("%w: %d seeds leaves no room for a bump", ErrMaxSeedLength, len(seeds))
	}
	bump := []byte{0}
	withBump := append(append(Seeds{}, seeds...), bump)
	for b := 255; b >= 0; b-- {
		bump[0] = uint8(b)
		addr, err := CreateProgramAddress(withBump, programID)
		switch {
		case err == nil:
			return addr, uint8(b), nil
		case !errors.Is(err, ErrInvalidSeeds):
			return codec.EmptyAddress, 0, err
		}
	}
	return codec.EmptyAddress, 0, ErrInvalidSeeds
}
