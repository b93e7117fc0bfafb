// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/set"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"

	smath "github.com/ava-labs/avalanchego/utils/math"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var _ accounts.Invoker = (*frame)(nil)

type entry struct {
	// info carries the privileges granted to the frame's program.
	info *accounts.AccountInfo
	// start is the balance when the frame began.
	start uint64
	// base is the state changes by the frame's program are checked against.
	// It moves forward whenever a callee returns.
	base accounts.Snapshot
}

// frame is one program on the invocation stack. It is the [accounts.Invoker]
// handed to that program.
type frame struct {
	r         *Runtime
	programID codec.Address
	depth     int
	// callers holds every program below this one on the stack.
	callers set.Set[codec.Address]
	entries map[codec.Address]*entry
}

func newFrame(
	r *Runtime,
	programID codec.Address,
	depth int,
	callers set.Set[codec.Address],
	infos []*accounts.AccountInfo,
) (*frame, error) {
	f := &frame{
		r:         r,
		programID: programID,
		depth:     depth,
		callers:   callers,
		entries:   make(map[codec.Address]*entry, len(infos)),
	}
	for _, info := range infos {
		if e, ok := f.entries[info.Key()]; ok {
			e.info = e.info.WithPrivileges(
				e.info.IsSigner() || info.IsSigner(),
				e.info.IsWritable() || info.IsWritable(),
			)
			continue
		}
		snap, err := info.Snapshot()
		if err != nil {
			return nil, err
		}
		f.entries[info.Key()] = &entry{
			info:  info,
			start: snap.Lamports,
			base:  snap,
		}
	}
	return f, nil
}

// Invoke runs ix as a cross-program call from the frame's program.
func (f *frame) Invoke(ctx context.Context, ix *accounts.Instruction, infos []*accounts.AccountInfo, signers ...accounts.Seeds) error {
	f.r.metrics.invocations.Inc()
	if err := f.invoke(ctx, ix, infos, signers); err != nil {
		f.r.metrics.invocationsFailed.Inc()
		return err
	}
	return nil
}

func (f *frame) invoke(ctx context.Context, ix *accounts.Instruction, infos []*accounts.AccountInfo, signers []accounts.Seeds) error {
	depth := f.depth + 1
	if depth > f.r.config.MaxInvokeDepth {
		return fmt.Errorf("%w: depth %d, max %d", ErrMaxInvokeDepth, depth, f.r.config.MaxInvokeDepth)
	}
	callee, ok := f.r.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID)
	}
	// A program may call itself but not a program that is waiting on it.
	if ix.ProgramID != f.programID && f.callers.Contains(ix.ProgramID) {
		return fmt.Errorf("%w: %s is already on the stack", ErrReentrancy, ix.ProgramID)
	}

	signed, err := f.signedBy(signers)
	if err != nil {
		return err
	}
	views, err := f.calleeAccounts(ix.Accounts, infos, signed)
	if err != nil {
		return err
	}
	if err := f.sync(views); err != nil {
		return err
	}

	callers := set.NewSet[codec.Address](f.callers.Len() + 1)
	callers.Union(f.callers)
	callers.Add(f.programID)
	child, err := newFrame(f.r, ix.ProgramID, depth, callers, views)
	if err != nil {
		return err
	}

	ctx, span := f.r.tracer.Start(ctx, "Runtime.Invoke", oteltrace.WithAttributes(
		attribute.Stringer("caller", f.programID),
		attribute.Stringer("program", ix.ProgramID),
		attribute.Int("depth", depth),
	))
	defer span.End()

	f.r.log.Debug("invoking program",
		zap.Stringer("caller", f.programID),
		zap.Stringer("program", ix.ProgramID),
		zap.Int("depth", depth),
	)
	if err := callee.Execute(ctx, child, views, ix.Data); err != nil {
		span.RecordError(err)
		return err
	}
	posts, err := child.verify()
	if err != nil {
		span.RecordError(err)
		return err
	}
	for key, post := range posts {
		if e, ok := f.entries[key]; ok {
			e.base = post
		}
	}
	return nil
}

// signedBy returns the program derived addresses of the frame's program
// that signers sign for.
func (f *frame) signedBy(signers []accounts.Seeds) (set.Set[codec.Address], error) {
	signed := set.NewSet[codec.Address](len(signers))
	for _, seeds := range signers {
		addr, err := accounts.CreateProgramAddress(seeds, f.programID)
		if err != nil {
			return nil, err
		}
		signed.Add(addr)
	}
	return signed, nil
}

// calleeAccounts returns a handle per meta with the requested privileges,
// which may not exceed what the frame itself holds.
func (f *frame) calleeAccounts(
	metas []accounts.AccountMeta,
	infos []*accounts.AccountInfo,
	signed set.Set[codec.Address],
) ([]*accounts.AccountInfo, error) {
	passed := set.NewSet[codec.Address](len(infos))
	for _, info := range infos {
		passed.Add(info.Key())
	}

	views := make([]*accounts.AccountInfo, 0, len(metas))
	for _, meta := range metas {
		e, ok := f.entries[meta.Key]
		if !ok || !passed.Contains(meta.Key) {
			return nil, fmt.Errorf("%w: missing %s", accounts.ErrNotEnoughAccounts, meta.Key)
		}
		if meta.IsWritable && !e.info.IsWritable() {
			return nil, fmt.Errorf("%w: %s is not writable", ErrPrivilegeEscalation, meta.Key)
		}
		if meta.IsSigner && !e.info.IsSigner() && !signed.Contains(meta.Key) {
			return nil, fmt.Errorf("%w: %s did not sign", ErrPrivilegeEscalation, meta.Key)
		}
		if meta.IsWritable {
			if err := e.info.CheckBorrowMut(); err != nil {
				return nil, err
			}
		}
		views = append(views, e.info.WithPrivileges(meta.IsSigner, meta.IsWritable))
	}
	return views, nil
}

// sync checks the changes the frame's program made to views so far and
// moves their baseline to the current state.
func (f *frame) sync(views []*accounts.AccountInfo) error {
	for _, view := range views {
		e := f.entries[view.Key()]
		post, err := e.info.Snapshot()
		if err != nil {
			return err
		}
		if err := checkChanges(f.programID, e.base, post, e.info.IsWritable()); err != nil {
			return err
		}
		e.base = post
	}
	return nil
}

// verify checks the changes of the frame's program since the last
// baseline and that no lamports were created or destroyed since the frame
// began. It returns the current state of every account.
func (f *frame) verify() (map[codec.Address]accounts.Snapshot, error) {
	var (
		before uint64
		after  uint64
		posts  = make(map[codec.Address]accounts.Snapshot, len(f.entries))
	)
	for key, e := range f.entries {
		post, err := e.info.Snapshot()
		if err != nil {
			return nil, err
		}
		if err := checkChanges(f.programID, e.base, post, e.info.IsWritable()); err != nil {
			return nil, err
		}
		if before, err = smath.Add(before, e.start); err != nil {
			return nil, accounts.ErrArithmeticOverflow
		}
		if after, err = smath.Add(after, post.Lamports); err != nil {
			return nil, accounts.ErrArithmeticOverflow
		}
		posts[key] = post
	}
	if before != after {
		return nil, fmt.Errorf("%w: %s: before=%d after=%d", ErrUnbalancedInstruction, f.programID, before, after)
	}
	return posts, nil
}

// checkChanges enforces what programID may do to an account between pre and
// post. Only the owner of a writable account may debit it, change its data
// or hand it to another owner, and a new owner only receives zeroed data.
// Anyone may credit a writable account.
func checkChanges(programID codec.Address, pre, post accounts.Snapshot, writable bool) error {
	owned := pre.Owner == programID
	switch {
	case pre.Executable != post.Executable:
		return fmt.Errorf("%w: executable flag of %s changed", ErrExternalAccountModified, pre.Key)
	case pre.Owner != post.Owner && (!owned || !writable || pre.Executable || !isZeroed(post.Data)):
		return fmt.Errorf("%w: owner of %s changed by %s", ErrExternalAccountModified, pre.Key, programID)
	case post.Lamports != pre.Lamports && !writable:
		return fmt.Errorf("%w: balance of read-only %s changed", ErrExternalAccountModified, pre.Key)
	case post.Lamports < pre.Lamports && !owned:
		return fmt.Errorf("%w: %s debited by %s", ErrExternalAccountModified, pre.Key, programID)
	case !bytes.Equal(pre.Data, post.Data) && (!owned || !writable || pre.Executable):
		return fmt.Errorf("%w: data of %s changed by %s", ErrExternalAccountModified, pre.Key, programID)
	default:
		return nil
	}
}

func isZeroed(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
