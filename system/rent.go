// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

// AccountStorageOverhead is the number of bytes charged for an account on
// top of its data.
const AccountStorageOverhead = 128

// Rent holds the parameters used to price account storage. The values are
// supplied by the environment.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamportsPerByteYear" yaml:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemptionThreshold" yaml:"exemption_threshold"`
}

func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3_480,
		ExemptionThreshold:  2.0,
	}
}

// MinimumBalance returns the balance an account holding dataLen bytes needs
// to be exempt from rent.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether balance covers [Rent.MinimumBalance].
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}
