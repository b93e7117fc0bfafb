// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/hyperaccounts/runtime"
	"github.com/ava-labs/hyperaccounts/trace"
)

func newTestSimulation(t *testing.T) *simulation {
	require := require.New(t)

	rt, err := runtime.New(runtime.NewDefaultConfig(), logging.NoLog{}, trace.Noop("test"), prometheus.NewRegistry(), runtime.NewLedger())
	require.NoError(err)
	sim, err := newSimulation(logging.NoLog{}, rt)
	require.NoError(err)
	return sim
}

func decodeResponses(t *testing.T, out string) []Response {
	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestSimulationRun(t *testing.T) {
	require := require.New(t)

	plan, err := unmarshalPlan([]byte(counterPlan))
	require.NoError(err)
	require.NoError(plan.Verify())

	sim := newTestSimulation(t)
	programLamports, err := sim.rt.Ledger().TotalLamports()
	require.NoError(err)

	var out bytes.Buffer
	require.NoError(sim.Run(context.Background(), plan, &out))

	responses := decodeResponses(t, out.String())
	require.Len(responses, len(plan.Steps))
	for i, resp := range responses {
		require.Equal(i, resp.ID)
	}

	// initialize
	require.Empty(responses[2].Error)
	require.NotNil(responses[2].Result.Count)
	require.Zero(*responses[2].Result.Count)

	// count
	require.Equal(uint64(5), *responses[4].Result.Count)

	// failed increment on bob
	require.NotEmpty(responses[5].Error)
	require.Nil(responses[5].Result.Count)

	// close
	require.Nil(responses[6].Result.Count)
	require.Equal("0.009000000", responses[6].Result.Msg)

	total, err := sim.rt.Ledger().TotalLamports()
	require.NoError(err)
	require.Equal(programLamports+10_000_000, total)
}

func TestSimulationAssertionFailure(t *testing.T) {
	tests := []struct {
		name string
		step Step
	}{
		{
			name: "unexpected success",
			step: Step{Method: BalanceMethod, Actor: "alice", Require: &Require{Error: true}},
		},
		{
			name: "unexpected failure",
			step: Step{Method: TransferMethod, Actor: "alice", To: "bob", Amount: 2, Require: &Require{}},
		},
		{
			name: "balance mismatch",
			step: Step{
				Method:  BalanceMethod,
				Actor:   "alice",
				Require: &Require{Result: &ResultAssertion{Operator: NumericGt, Value: 1}},
			},
		},
		{
			name: "missing counter",
			step: Step{
				Method:  CountMethod,
				Actor:   "alice",
				Require: &Require{Result: &ResultAssertion{Operator: NumericEq, Value: 0}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			plan := &Plan{
				Keys:  []Key{{Name: "alice", Lamports: 1}, {Name: "bob"}},
				Steps: []Step{tt.step},
			}
			require.NoError(plan.Verify())

			var out bytes.Buffer
			err := newTestSimulation(t).Run(context.Background(), plan, &out)
			require.ErrorIs(err, ErrAssertion)
			require.Len(decodeResponses(t, out.String()), 1)
		})
	}
}

func TestKeyAddressDeterministic(t *testing.T) {
	require := require.New(t)

	require.Equal(keyAddress("alice"), keyAddress("alice"))
	require.NotEqual(keyAddress("alice"), keyAddress("bob"))
	require.NotEqual(CounterID, keyAddress("counter"))
}

func TestRootRunFromStdin(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(counterPlan))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run", "-", "--dir", t.TempDir(), "--log-level", "debug"})
	require.NoError(cmd.ExecuteContext(context.Background()))
	require.Len(decodeResponses(t, out.String()), 8)
}

func TestRootRunInvalidPlan(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader("name: empty\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "-", "--dir", t.TempDir()})
	require.ErrorIs(t, cmd.ExecuteContext(context.Background()), ErrInvalidPlan)
}

func TestRootConfig(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config"})
	require.NoError(cmd.ExecuteContext(context.Background()))

	var config runtime.Config
	require.NoError(json.Unmarshal(out.Bytes(), &config))
	require.Equal(runtime.DefaultMaxInvokeDepth, config.MaxInvokeDepth)
}

func TestRootRunPlanFile(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"run", filepath.Join("..", "plans", "counter.yaml"), "--dir", t.TempDir()})
	require.NoError(cmd.ExecuteContext(context.Background()))

	responses := decodeResponses(t, out.String())
	require.Len(responses, 8)
	require.NotEmpty(responses[3].Error)
	require.Equal(uint64(42), *responses[6].Result.Count)
}
