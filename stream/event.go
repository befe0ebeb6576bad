//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package stream normalizes provider streaming wire protocols into one
// internal event model.
package stream

// EventType discriminates the variants of a normalized stream event.
type EventType string

// Normalized event types. This is the contract every provider normalizer
// must produce.
const (
	// EventTextDelta carries one assistant text token. Text deltas are passed
	// through immediately, never buffered, so the caller can render tokens as
	// they arrive.
	EventTextDelta EventType = "text_delta"
	// EventToolCallStart opens a tool call. For the Anthropic protocol the
	// call id is known from the start; for the OpenAI protocol the start is
	// synthesized retroactively from the end-of-turn summary item.
	EventToolCallStart EventType = "tool_call_start"
	// EventToolInputDelta carries one fragment of a call's argument JSON.
	EventToolInputDelta EventType = "tool_input_delta"
	// EventToolCallComplete closes the most recently started call that is
	// still open; earlier open calls keep accumulating.
	EventToolCallComplete EventType = "tool_call_complete"
	// EventTurnDone marks the end of the model turn.
	EventTurnDone EventType = "turn_done"
	// EventError carries an explicit provider error frame; the stream ends
	// after it is surfaced once.
	EventError EventType = "error"
)

// Event is one normalized streaming event. It is a tagged variant: only the
// fields implied by Type are meaningful.
type Event struct {
	Type EventType

	// Text is the token payload of a text delta.
	Text string

	// ID and Name identify a starting tool call. PartialInput carries any
	// argument JSON already observed at start time.
	ID           string
	Name         string
	PartialInput string

	// Fragment is one argument-JSON fragment. TargetID is a best-effort
	// routing hint; it may be empty when the wire protocol only keys deltas
	// by position.
	Fragment string
	TargetID string

	// Code and Message describe a provider error frame.
	Code    string
	Message string
}
