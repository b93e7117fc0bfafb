// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ava-labs/hyperaccounts/accounts"
	"github.com/ava-labs/hyperaccounts/codec"
	"github.com/ava-labs/hyperaccounts/system"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Runtime executes instructions against the accounts of a [Ledger]. Each
// instruction runs on private copies of its accounts, which are written
// back only when the instruction succeeds.
//
// Instructions are serialized, so a Runtime may be shared between
// goroutines.
type Runtime struct {
	config  Config
	log     logging.Logger
	tracer  trace.Tracer
	metrics *Metrics
	ledger  *Ledger

	lock     sync.Mutex
	programs map[codec.Address]Program
}

// New returns a runtime with the system program registered.
func New(
	config Config,
	log logging.Logger,
	tracer trace.Tracer,
	registerer prometheus.Registerer,
	ledger *Ledger,
) (*Runtime, error) {
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register runtime metrics: %w", err)
	}
	r := &Runtime{
		config:   config,
		log:      log,
		tracer:   tracer,
		metrics:  metrics,
		ledger:   ledger,
		programs: make(map[codec.Address]Program),
	}
	if err := r.Register(system.NewProgram(log)); err != nil {
		return nil, err
	}
	return r, nil
}

// Register makes p callable and stores its executable account.
func (r *Runtime) Register(p Program) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := p.ID()
	if _, ok := r.programs[id]; ok {
		return fmt.Errorf("%w: %s", ErrProgramRegistered, id)
	}
	if err := r.ledger.Put(id, StoredAccount{
		Owner:      LoaderID,
		Lamports:   1,
		Executable: true,
	}); err != nil {
		return err
	}
	r.programs[id] = p
	r.log.Info("registered program", zap.Stringer("program", id))
	return nil
}

func (r *Runtime) Ledger() *Ledger {
	return r.ledger
}

func (r *Runtime) Config() Config {
	return r.config
}

// Execute runs ix as a top level instruction. The signer and writable flags
// of ix.Accounts are taken as granted.
func (r *Runtime) Execute(ctx context.Context, ix *accounts.Instruction) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	ctx, span := r.tracer.Start(ctx, "Runtime.Execute", oteltrace.WithAttributes(
		attribute.Stringer("program", ix.ProgramID),
		attribute.Int("accounts", len(ix.Accounts)),
	))
	defer span.End()

	start := time.Now()
	r.metrics.instructions.Inc()
	err := r.execute(ctx, ix)
	r.metrics.executeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		r.metrics.instructionsFailed.Inc()
		span.RecordError(err)
		r.log.Debug("instruction failed",
			zap.Stringer("program", ix.ProgramID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *Runtime) execute(ctx context.Context, ix *accounts.Instruction) error {
	program, ok := r.programs[ix.ProgramID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, ix.ProgramID)
	}

	infos, err := r.load(ix.Accounts)
	if err != nil {
		return err
	}
	f, err := newFrame(r, ix.ProgramID, 0, set.Set[codec.Address]{}, infos)
	if err != nil {
		return err
	}
	if err := program.Execute(ctx, f, infos, ix.Data); err != nil {
		return err
	}
	posts, err := f.verify()
	if err != nil {
		return err
	}

	updates := make(map[codec.Address]StoredAccount, len(posts))
	for key, post := range posts {
		if f.entries[key].info.IsWritable() {
			updates[key] = storedFromSnapshot(post)
		}
	}
	if err := r.ledger.commit(updates); err != nil {
		return err
	}
	r.metrics.accountsCommitted.Add(float64(len(updates)))
	r.log.Debug("instruction committed",
		zap.Stringer("program", ix.ProgramID),
		zap.Int("accounts", len(updates)),
	)
	return nil
}

// load builds one handle per meta. Metas naming the same key share the
// account state and carry the union of the privileges requested for it.
func (r *Runtime) load(metas []accounts.AccountMeta) ([]*accounts.AccountInfo, error) {
	type privileges struct {
		isSigner   bool
		isWritable bool
	}
	granted := make(map[codec.Address]privileges, len(metas))
	for _, meta := range metas {
		p := granted[meta.Key]
		p.isSigner = p.isSigner || meta.IsSigner
		p.isWritable = p.isWritable || meta.IsWritable
		granted[meta.Key] = p
	}

	handles := make(map[codec.Address]*accounts.AccountInfo, len(granted))
	infos := make([]*accounts.AccountInfo, len(metas))
	for i, meta := range metas {
		info, ok := handles[meta.Key]
		if !ok {
			stored, _, err := r.ledger.Get(meta.Key)
			if err != nil {
				return nil, err
			}
			p := granted[meta.Key]
			info = accounts.NewAccountInfo(meta.Key, accounts.Params{
				Owner:           stored.Owner,
				Lamports:        stored.Lamports,
				Data:            stored.Data,
				IsSigner:        p.isSigner,
				IsWritable:      p.isWritable,
				Executable:      stored.Executable,
				MaxDataIncrease: r.config.MaxPermittedDataIncrease,
			})
			handles[meta.Key] = info
		}
		infos[i] = info
	}
	return infos, nil
}
