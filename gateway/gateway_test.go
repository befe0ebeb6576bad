//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/tool"
	"github.com/sommda/gamemaster-client/tool/function"
)

type sleepInput struct {
	Millis int    `json:"millis"`
	Reply  string `json:"reply"`
}

func newTestRegistry() *tool.Registry {
	return tool.NewRegistry(
		function.New(func(ctx context.Context, in sleepInput) (string, error) {
			time.Sleep(time.Duration(in.Millis) * time.Millisecond)
			return in.Reply, nil
		}, function.WithName("slow_echo")),
		function.New(func(ctx context.Context, in map[string]any) (string, error) {
			return "", errors.New("boom")
		}, function.WithName("always_fails")),
		function.New(func(ctx context.Context, in map[string]any) (string, error) {
			panic("unhinged tool")
		}, function.WithName("panics")),
	)
}

func newGateway(t *testing.T) *Gateway {
	t.Helper()
	gw, err := New(newTestRegistry())
	require.NoError(t, err)
	t.Cleanup(gw.Close)
	return gw
}

func TestExecutePreservesCallOrder(t *testing.T) {
	gw := newGateway(t)

	// The first call sleeps longest; order must still match the request.
	var calls []model.ToolCallRecord
	for i := 0; i < 4; i++ {
		args, _ := json.Marshal(sleepInput{Millis: (4 - i) * 20, Reply: fmt.Sprintf("r%d", i)})
		calls = append(calls, model.ToolCallRecord{
			ID: fmt.Sprintf("call_%d", i), Name: "slow_echo", Arguments: args,
		})
	}

	results, err := gw.Execute(context.Background(), calls)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, fmt.Sprintf("call_%d", i), result.CallID)
		assert.Equal(t, fmt.Sprintf("r%d", i), result.Content)
	}
}

func TestExecuteIsolatesFailures(t *testing.T) {
	gw := newGateway(t)

	results, err := gw.Execute(context.Background(), []model.ToolCallRecord{
		{ID: "ok", Name: "slow_echo", Arguments: json.RawMessage(`{"reply":"fine"}`)},
		{ID: "bad", Name: "always_fails", Arguments: json.RawMessage(`{}`)},
		{ID: "missing", Name: "no_such_tool", Arguments: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "fine", results[0].Content)
	assert.False(t, results[0].IsError())

	assert.Equal(t, model.ErrorToolExecution, results[1].Content)
	assert.True(t, results[1].IsError())

	assert.Equal(t, model.ErrorToolNotFound, results[2].Content)
	assert.True(t, results[2].IsError())
}

func TestExecuteRejectsUnparseableArguments(t *testing.T) {
	gw := newGateway(t)

	results, err := gw.Execute(context.Background(), []model.ToolCallRecord{
		{ID: "call_1", Name: "slow_echo", Arguments: json.RawMessage(`{"reply":`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.ErrorInvalidArguments, results[0].Content)
}

func TestExecuteRecoversFromPanic(t *testing.T) {
	gw := newGateway(t)

	results, err := gw.Execute(context.Background(), []model.ToolCallRecord{
		{ID: "call_1", Name: "panics", Arguments: json.RawMessage(`{}`)},
		{ID: "call_2", Name: "slow_echo", Arguments: json.RawMessage(`{"reply":"survived"}`)},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, model.ErrorToolExecution, results[0].Content)
	assert.Equal(t, "survived", results[1].Content)
}

func TestExecuteFailsFastOnDoneContext(t *testing.T) {
	gw := newGateway(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gw.Execute(ctx, []model.ToolCallRecord{
		{ID: "call_1", Name: "slow_echo", Arguments: json.RawMessage(`{}`)},
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteMarshalsStructResults(t *testing.T) {
	registry := tool.NewRegistry(function.New(
		func(ctx context.Context, in map[string]any) (map[string]int, error) {
			return map[string]int{"total": 17}, nil
		}, function.WithName("totals")))
	gw, err := New(registry)
	require.NoError(t, err)
	defer gw.Close()

	results, err := gw.Execute(context.Background(), []model.ToolCallRecord{
		{ID: "call_1", Name: "totals", Arguments: json.RawMessage(`{}`)},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":17}`, results[0].Content)
}
