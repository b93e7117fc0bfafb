// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/examples/counter"
	"github.com/ava-labs/hyperaccounts/runtime"
	"github.com/ava-labs/hyperaccounts/system"
	"github.com/ava-labs/hyperaccounts/utils"
)

// CounterID is the address the counter program is registered at.
var CounterID = codec.Address(sha256.Sum256([]byte("accountsim/counter")))

// keyAddress derives the address of a named key so plans are reproducible.
func keyAddress(name string) codec.Address {
	return codec.Address(sha256.Sum256([]byte("accountsim/key/" + name)))
}

type simulation struct {
	log  logging.Logger
	rt   *runtime.Runtime
	keys map[string]codec.Address
}

func newSimulation(log logging.Logger, rt *runtime.Runtime) (*simulation, error) {
	if err := rt.Register(counter.New(CounterID, rt.Config().Rent, log)); err != nil {
		return nil, err
	}
	return &simulation{
		log:  log,
		rt:   rt,
		keys: make(map[string]codec.Address),
	}, nil
}

// Run funds the plan's keys and executes its steps in order, writing one
// JSON response per step to w. It stops at the first failed assertion.
func (s *simulation) Run(ctx context.Context, plan *Plan, w io.Writer) error {
	s.log.Info("simulation",
		zap.String("plan", plan.Name),
		zap.String("description", plan.Description),
	)
	for _, k := range plan.Keys {
		addr := keyAddress(k.Name)
		s.keys[k.Name] = addr
		lamports, err := k.Funds()
		if err != nil {
			return err
		}
		if lamports == 0 {
			continue
		}
		if err := s.rt.Ledger().Fund(addr, lamports); err != nil {
			return err
		}
	}

	for i, step := range plan.Steps {
		s.log.Info("simulation",
			zap.Int("step", i),
			zap.String("description", step.Description),
			zap.String("method", string(step.Method)),
			zap.String("actor", step.Actor),
		)

		resp := &Response{ID: i}
		stepErr := s.execute(ctx, step)
		if stepErr != nil {
			resp.Error = stepErr.Error()
		}
		result, err := s.read(step.Actor)
		if err != nil {
			return err
		}
		resp.Result = result
		if err := resp.Print(w); err != nil {
			return err
		}
		if err := check(i, step, stepErr, result); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulation) execute(ctx context.Context, step Step) error {
	actor := s.keys[step.Actor]
	var (
		ix  *accounts.Instruction
		err error
	)
	switch step.Method {
	case TransferMethod:
		ix, err = transferInstruction(actor, s.keys[step.To], step.Amount)
	case InitializeMethod:
		ix, err = counter.InitializeInstruction(CounterID, actor)
	case IncrementMethod:
		ix, err = counter.IncrementInstruction(CounterID, actor, step.Amount)
	case CloseMethod:
		ix, err = counter.CloseInstruction(CounterID, actor)
	case BalanceMethod, CountMethod:
		return nil
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidStep, step.Method)
	}
	if err != nil {
		return err
	}
	return s.rt.Execute(ctx, ix)
}

func transferInstruction(from codec.Address, to codec.Address, lamports uint64) (*accounts.Instruction, error) {
	data, err := system.EncodeInstruction(&system.TransferArgs{Lamports: lamports})
	if err != nil {
		return nil, err
	}
	return &accounts.Instruction{
		ProgramID: system.ID,
		Accounts: []accounts.AccountMeta{
			{Key: from, IsSigner: true, IsWritable: true},
			{Key: to, IsWritable: true},
		},
		Data: data,
	}, nil
}

// read returns the balance of the named key and its counter, if any.
func (s *simulation) read(name string) (Result, error) {
	actor := s.keys[name]
	stored, _, err := s.rt.Ledger().Get(actor)
	if err != nil {
		return Result{}, err
	}
	result := Result{
		Balance: stored.Lamports,
		Msg:     utils.FormatBalance(stored.Lamports),
	}

	addr, _, err := counter.Address(CounterID, actor)
	if err != nil {
		return Result{}, err
	}
	acct, ok, err := s.rt.Ledger().Get(addr)
	if err != nil {
		return Result{}, err
	}
	if !ok || acct.Owner != CounterID {
		return result, nil
	}
	c, err := codec.Decode[counter.Counter](acct.Data)
	if err != nil {
		return Result{}, err
	}
	result.Count = &c.Count
	return result, nil
}

func check(i int, step Step, stepErr error, result Result) error {
	if step.Require == nil {
		return nil
	}
	if failed := stepErr != nil; failed != step.Require.Error {
		return fmt.Errorf("%w: step %d: expected error=%t, got %v", ErrAssertion, i, step.Require.Error, stepErr)
	}
	assertion := step.Require.Result
	if assertion == nil {
		return nil
	}
	actual := result.Balance
	if step.Method == CountMethod {
		if result.Count == nil {
			return fmt.Errorf("%w: step %d: %s has no counter", ErrAssertion, i, step.Actor)
		}
		actual = *result.Count
	}
	ok, err := assertion.Operator.Compare(actual, assertion.Value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: step %d: %d %s %d", ErrAssertion, i, actual, assertion.Operator, assertion.Value)
	}
	return nil
}
