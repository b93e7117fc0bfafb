// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package system

import (
	"encoding/binary"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/consts"
)

// InstructionType is the little-endian u32 prefix of system instruction data.
type InstructionType uint32

const (
	CreateAccountType InstructionType = 0
	AssignType        InstructionType = 1
	TransferType      InstructionType = 2
	AllocateType      InstructionType = 8
)

func (t InstructionType) String() string {
	switch t {
	case CreateAccountType:
		return "create_account"
	case AssignType:
		return "assign"
	case TransferType:
		return "transfer"
	case AllocateType:
		return "allocate"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// CreateAccountArgs funds, allocates and assigns a new account.
// Accounts: [0] funding (signer, writable), [1] new (signer, writable).
type CreateAccountArgs struct {
	Lamports uint64
	Space    uint64
	Owner    codec.Address
}

// AssignArgs changes the owner of a system owned account.
// Accounts: [0] account (signer, writable).
type AssignArgs struct {
	Owner codec.Address
}

// TransferArgs moves lamports.
// Accounts: [0] from (signer, writable), [1] to (writable).
type TransferArgs struct {
	Lamports uint64
}

// AllocateArgs sizes the data of a system owned account.
// Accounts: [0] account (signer, writable).
type AllocateArgs struct {
	Space uint64
}

func bodyLen(t InstructionType) (int, bool) {
	switch t {
	case CreateAccountType:
		return 2*consts.Uint64Len + codec.AddressLen, true
	case AssignType:
		return codec.AddressLen, true
	case TransferType, AllocateType:
		return consts.Uint64Len, true
	default:
		return 0, false
	}
}

// EncodeInstruction returns the instruction data for args, which must be
// one of the *Args types of this package.
func EncodeInstruction(args any) ([]byte, error) {
	var (
		t    InstructionType
		body any
	)
	// borsh encodes pointers as options, so the args are passed by value.
	switch a := args.(type) {
	case *CreateAccountArgs:
		t, body = CreateAccountType, *a
	case *AssignArgs:
		t, body = AssignType, *a
	case *TransferArgs:
		t, body = TransferType, *a
	case *AllocateArgs:
		t, body = AllocateType, *a
	default:
		return nil, fmt.Errorf("%w: unsupported args %T", ErrInvalidInstruction, args)
	}
	encoded, err := borsh.Serialize(body)
	if err != nil {
		return nil, err
	}
	data := make([]byte, consts.Uint32Len, consts.Uint32Len+len(encoded))
	binary.LittleEndian.PutUint32(data, uint32(t))
	return append(data, encoded...), nil
}

// DecodeInstruction parses instruction data into the matching *Args type.
func DecodeInstruction(data []byte) (InstructionType, any, error) {
	if len(data) < consts.Uint32Len {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrInvalidInstruction, len(data))
	}
	t := InstructionType(binary.LittleEndian.Uint32(data))
	size, ok := bodyLen(t)
	if !ok {
		return t, nil, fmt.Errorf("%w: unknown instruction %s", ErrInvalidInstruction, t)
	}
	body := data[consts.Uint32Len:]
	if len(body) != size {
		return t, nil, fmt.Errorf("%w: %s expects %d bytes, found %d", ErrInvalidInstruction, t, size, len(body))
	}

	var args any
	switch t {
	case CreateAccountType:
		args = new(CreateAccountArgs)
	case AssignType:
		args = new(AssignArgs)
	case TransferType:
		args = new(TransferArgs)
	case AllocateType:
		args = new(AllocateArgs)
	}
	if err := borsh.Deserialize(args, body); err != nil {
		return t, nil, fmt.Errorf("%w: %w", ErrInvalidInstruction, err)
	}
	return t, args, nil
}
