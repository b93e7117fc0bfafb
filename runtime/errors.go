// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import "errors"

var (
	ErrPrivilegeEscalation     = errors.New("privilege escalation")
	ErrUnknownProgram          = errors.New("unknown program")
	ErrMaxInvokeDepth          = errors.New("max invoke depth exceeded")
	ErrUnbalancedInstruction   = errors.New("sum of account balances before and after instruction do not match")
	ErrExternalAccountModified = errors.New("instruction modified an account it does not own")
	ErrReentrancy              = errors.New("cross-program invocation reentrancy not allowed")
	ErrProgramRegistered       = errors.New("program already registered")
)
