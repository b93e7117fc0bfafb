// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package runtime

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	instructions       prometheus.Counter
	instructionsFailed prometheus.Counter
	invocations        prometheus.Counter
	invocationsFailed  prometheus.Counter
	accountsCommitted  prometheus.Counter
	executeDuration    prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		instructions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "instructions",
			Help:      "number of top level instructions executed",
		}),
		instructionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "instructions_failed",
			Help:      "number of top level instructions that failed and were discarded",
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "invocations",
			Help:      "number of cross-program invocations",
		}),
		invocationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "invocations_failed",
			Help:      "number of cross-program invocations that returned an error",
		}),
		accountsCommitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "runtime",
			Name:      "accounts_committed",
			Help:      "number of accounts written to the ledger",
		}),
		executeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "runtime",
			Name:      "execute_duration_seconds",
			Help:      "time spent executing top level instructions",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.instructions),
		r.Register(m.instructionsFailed),
		r.Register(m.invocations),
		r.Register(m.invocationsFailed),
		r.Register(m.accountsCommitted),
		r.Register(m.executeDuration),
	)
	return m, errs.Err
}
