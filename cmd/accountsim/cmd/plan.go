// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/ava-labs/hyperaccounts/utils"
)

type Method string

const (
	// Move lamports from the actor to another key.
	TransferMethod Method = "transfer"
	// Create the counter of the actor.
	InitializeMethod Method = "initialize"
	// Add the amount to the counter of the actor.
	IncrementMethod Method = "increment"
	// Close the counter of the actor and refund its lamports.
	CloseMethod Method = "close"
	// Read the balance of the actor.
	BalanceMethod Method = "balance"
	// Read the counter of the actor.
	CountMethod Method = "count"
)

type Plan struct {
	// The name of the plan.
	Name string `yaml:"name" json:"name"`
	// A description of the plan.
	Description string `yaml:"description" json:"description"`
	// Named keys created and funded before the first step.
	Keys []Key `yaml:"keys" json:"keys"`
	// Steps to perform during simulation.
	Steps []Step `yaml:"steps" json:"steps"`
}

type Key struct {
	Name     string `yaml:"name" json:"name"`
	Lamports uint64 `yaml:"lamports,omitempty" json:"lamports,omitempty"`
	// Starting balance in whole tokens, e.g. "1.5". Exclusive with Lamports.
	Balance string `yaml:"balance,omitempty" json:"balance,omitempty"`
}

// Funds returns the lamports the key starts with.
func (k Key) Funds() (uint64, error) {
	if k.Balance == "" {
		return k.Lamports, nil
	}
	if k.Lamports != 0 {
		return 0, fmt.Errorf("%w: %s sets both lamports and balance", ErrInvalidPlan, k.Name)
	}
	return utils.ParseBalance(k.Balance)
}

type Step struct {
	// Description of the step.
	Description string `yaml:"description" json:"description"`
	// The operation to perform. (required)
	Method Method `yaml:"method" json:"method"`
	// The key that signs or is queried. (required)
	Actor string `yaml:"actor" json:"actor"`
	// The receiving key of a transfer.
	To string `yaml:"to,omitempty" json:"to,omitempty"`
	// Lamports to transfer or the counter increment.
	Amount uint64 `yaml:"amount,omitempty" json:"amount,omitempty"`
	// Assertions checked after the step.
	Require *Require `yaml:"require,omitempty" json:"require,omitempty"`
}

type Require struct {
	// Whether the step is expected to fail.
	Error bool `yaml:"error,omitempty" json:"error,omitempty"`
	// Assertion against the value read by the step.
	Result *ResultAssertion `yaml:"result,omitempty" json:"result,omitempty"`
}

type ResultAssertion struct {
	Operator Operator `yaml:"operator" json:"operator"`
	Value    uint64   `yaml:"value" json:"value"`
}

type Operator string

const (
	NumericGt Operator = ">"
	NumericLt Operator = "<"
	NumericGe Operator = ">="
	NumericLe Operator = "<="
	NumericEq Operator = "=="
	NumericNe Operator = "!="
)

func (o Operator) Compare(actual uint64, expected uint64) (bool, error) {
	switch o {
	case NumericGt:
		return actual > expected, nil
	case NumericLt:
		return actual < expected, nil
	case NumericGe:
		return actual >= expected, nil
	case NumericLe:
		return actual <= expected, nil
	case NumericEq:
		return actual == expected, nil
	case NumericNe:
		return actual != expected, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidOperator, o)
	}
}

func unmarshalPlan(b []byte) (*Plan, error) {
	var p Plan
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return &p, nil
}

// Verify checks that every step is well formed and names known keys.
func (p *Plan) Verify() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: no steps found", ErrInvalidPlan)
	}
	keys := make(map[string]struct{}, len(p.Keys))
	for _, k := range p.Keys {
		if _, ok := keys[k.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, k.Name)
		}
		if _, err := k.Funds(); err != nil {
			return fmt.Errorf("%w: key %s: %w", ErrInvalidPlan, k.Name, err)
		}
		keys[k.Name] = struct{}{}
	}
	for i, step := range p.Steps {
		if _, ok := keys[step.Actor]; !ok {
			return fmt.Errorf("%w %d: %w: actor %q", ErrInvalidStep, i, ErrUnknownKey, step.Actor)
		}
		switch step.Method {
		case TransferMethod:
			if _, ok := keys[step.To]; !ok {
				return fmt.Errorf("%w %d: %w: receiver %q", ErrInvalidStep, i, ErrUnknownKey, step.To)
			}
		case InitializeMethod, IncrementMethod, CloseMethod, BalanceMethod, CountMethod:
		default:
			return fmt.Errorf("%w %d: unknown method %q", ErrInvalidStep, i, step.Method)
		}
		if step.Require != nil && step.Require.Result != nil {
			if _, err := step.Require.Result.Operator.Compare(0, 0); err != nil {
				return fmt.Errorf("%w %d: %w", ErrInvalidStep, i, err)
			}
		}
	}
	return nil
}

type Response struct {
	// The index of the step that generated this response.
	ID int `json:"id"`
	// The result of the step.
	Result Result `json:"result,omitempty"`
	// The error message if available.
	Error string `json:"error,omitempty"`
}

type Result struct {
	// The balance of the actor after the step.
	Balance uint64 `json:"balance"`
	// The counter of the actor after the step, if it exists.
	Count *uint64 `json:"count,omitempty"`
	// The balance formatted in whole tokens.
	Msg string `json:"msg,omitempty"`
}

func (r *Response) Print(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
