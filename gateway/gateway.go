//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package gateway executes assembled tool calls against a tool runtime and
// encodes every per-call failure into the result content, so that a bad call
// never aborts the turn.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/telemetry"
	"github.com/sommda/gamemaster-client/tool"
)

const defaultPoolSize = 8

// Gateway dispatches tool calls to a runtime. Calls within one Execute run
// in parallel on a shared worker pool; results come back in call order.
type Gateway struct {
	runtime tool.Runtime
	pool    *ants.Pool
}

// Option configures a Gateway.
type Option func(*options)

type options struct {
	poolSize int
}

// WithPoolSize bounds the number of tool calls executing concurrently.
func WithPoolSize(n int) Option {
	return func(o *options) {
		o.poolSize = n
	}
}

// New creates a gateway over the given runtime.
func New(runtime tool.Runtime, opts ...Option) (*Gateway, error) {
	o := options{poolSize: defaultPoolSize}
	for _, opt := range opts {
		opt(&o)
	}

	pool, err := ants.NewPool(o.poolSize)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Gateway{runtime: runtime, pool: pool}, nil
}

// Close releases the worker pool.
func (g *Gateway) Close() {
	g.pool.Release()
}

// Execute runs every call and returns one result per call, in the same
// order. Unknown tools, unparseable arguments, execution errors and panics
// all become error-payload results; the only hard failure is a context that
// is already done.
func (g *Gateway) Execute(ctx context.Context, calls []model.ToolCallRecord) ([]model.ToolResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]model.ToolResultRecord, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		i, call := i, call
		wg.Add(1)
		if err := g.pool.Submit(func() {
			defer wg.Done()
			results[i] = g.executeOne(ctx, call)
		}); err != nil {
			// Pool refused the task; run it inline rather than dropping it.
			results[i] = g.executeOne(ctx, call)
			wg.Done()
		}
	}
	wg.Wait()
	return results, nil
}

// executeOne runs a single call, translating every failure into result
// content carrying the error payload prefix.
func (g *Gateway) executeOne(ctx context.Context, call model.ToolCallRecord) (result model.ToolResultRecord) {
	result.CallID = call.ID
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Tool %s panicked: %v", call.Name, r)
			result.Content = model.ErrorToolExecution
		}
		if result.IsError() {
			telemetry.ToolFailureCounter.Add(ctx, 1,
				metric.WithAttributes(attribute.String(telemetry.KeyToolName, call.Name)))
		}
	}()

	ctx, span := telemetry.Tracer.Start(ctx, telemetry.SpanNamePrefixExecuteTool+" "+call.Name)
	defer span.End()
	telemetry.TraceToolCall(span, call.Name, call.ID, call.Arguments)

	if len(call.Arguments) > 0 && !json.Valid(call.Arguments) {
		log.Warnf("Tool %s called with unparseable arguments", call.Name)
		result.Content = model.ErrorInvalidArguments
		return result
	}

	out, err := g.runtime.CallTool(ctx, call.Name, call.Arguments)
	if err != nil {
		if errors.Is(err, tool.ErrNotFound) {
			log.Warnf("Tool %s not available in runtime", call.Name)
			result.Content = model.ErrorToolNotFound
		} else {
			log.Errorf("Tool %s failed: %v", call.Name, err)
			result.Content = model.ErrorToolExecution
		}
		return result
	}

	content, err := marshalResult(out)
	if err != nil {
		log.Errorf("Tool %s returned an unserializable result: %v", call.Name, err)
		result.Content = model.ErrorMarshalResult
		return result
	}
	result.Content = content
	return result
}

// marshalResult converts a tool's return value to result content. Strings
// pass through untouched.
func marshalResult(out any) (string, error) {
	switch v := out.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
