//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package telemetry provides tracing and metrics instrumentation for the
// gamemaster client. It uses the OpenTelemetry API against the global
// providers; hosts that want export wire up an SDK themselves.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation constants.
const (
	InstrumentName = "gamemaster.client"

	SpanNameRunTurn           = "run_turn"
	SpanNamePrefixExecuteTool = "execute_tool"
)

// Span attribute keys.
const (
	KeyRunID      = "gamemaster.run_id"
	KeyProvider   = "gamemaster.provider"
	KeySessionKey = "gamemaster.session_key"
	KeyToolName   = "gamemaster.tool.name"
	KeyToolCallID = "gamemaster.tool.call_id"
	KeyStopReason = "gamemaster.stop_reason"
	KeyIterations = "gamemaster.iterations"
)

// Tracer is the shared tracer for the client.
var Tracer = otel.Tracer(InstrumentName)

// Meter is the shared meter for the client.
var Meter = otel.Meter(InstrumentName)

var (
	// IterationCounter counts model round trips across all runs.
	IterationCounter metric.Int64Counter

	// ToolFailureCounter counts tool executions whose result carried an
	// error payload.
	ToolFailureCounter metric.Int64Counter
)

func init() {
	var err error
	IterationCounter, err = Meter.Int64Counter("gamemaster.iterations",
		metric.WithDescription("Model round trips per orchestration run."))
	if err != nil {
		IterationCounter, _ = noop.NewMeterProvider().Meter(InstrumentName).Int64Counter("gamemaster.iterations")
	}
	ToolFailureCounter, err = Meter.Int64Counter("gamemaster.tool_failures",
		metric.WithDescription("Tool executions that returned an error payload."))
	if err != nil {
		ToolFailureCounter, _ = noop.NewMeterProvider().Meter(InstrumentName).Int64Counter("gamemaster.tool_failures")
	}
}

// TraceToolCall records the identifying attributes of one tool execution.
func TraceToolCall(span trace.Span, name, callID string, args []byte) {
	span.SetAttributes(
		attribute.String("gen_ai.operation.name", "tool.execute"),
		attribute.String(KeyToolName, name),
		attribute.String(KeyToolCallID, callID),
		attribute.String("gen_ai.tool.call.arguments", string(args)),
	)
}
