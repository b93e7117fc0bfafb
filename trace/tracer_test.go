// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"
)

func TestDisabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(Config{AppName: "accounts"})
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "Runtime.Execute")
	require.False(span.IsRecording())
	span.End()
	require.NoError(tracer.Close())
}

func TestEnabledTracer(t *testing.T) {
	require := require.New(t)

	tracer, err := New(Config{
		Enabled:         true,
		TraceSampleRate: 1,
		AppName:         "accounts",
		Agent:           "test",
		Version:         "v0.0.1",
	})
	require.NoError(err)

	_, span := tracer.Start(context.Background(), "Runtime.Execute")
	require.True(span.IsRecording())
	span.End()
}

func TestNoopTracer(t *testing.T) {
	require := require.New(t)

	var tracer trace.Tracer = Noop("accounts")
	ctx, span := tracer.Start(context.Background(), "Runtime.Execute")
	require.False(span.IsRecording())
	require.False(span.SpanContext().IsValid())

	// Child spans of a noop span are noop as well.
	_, child := tracer.Start(ctx, "Runtime.Invoke")
	require.False(child.IsRecording())
	child.End()
	span.End()
	require.NoError(tracer.Close())
}
