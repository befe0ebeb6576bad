//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"fmt"
	"strings"
)

// ErrorContentPrefix is the reserved marker at the start of a tool result's
// content signaling that the tool failed. Argument-parse and execution
// failures are encoded into result content with this prefix instead of
// aborting the orchestration loop.
const ErrorContentPrefix = "Error:"

// Reserved error content messages for tool execution failures.
const (
	// ErrorToolNotFound is the error content for an unknown tool name.
	ErrorToolNotFound = "Error: tool not found"
	// ErrorToolExecution is the error content for a failed tool invocation.
	ErrorToolExecution = "Error: tool execution failed"
	// ErrorInvalidArguments is the error content for tool-call arguments that
	// did not parse as JSON.
	ErrorInvalidArguments = "Error: invalid tool arguments"
	// ErrorMarshalResult is the error content for an unencodable tool result.
	ErrorMarshalResult = "Error: failed to marshal result"
)

func hasErrorPrefix(content string) bool {
	return strings.HasPrefix(content, ErrorContentPrefix)
}

// StopReason reports how an orchestration run ended. Only StopCompleted is a
// fully normal end; StopLoopBreak and StopTruncated are warning-level
// conditions, never hard failures.
type StopReason string

// Stop reason constants.
const (
	// StopCompleted means the model finished without requesting tool calls.
	StopCompleted StopReason = "completed"
	// StopLoopBreak means every remaining candidate call had already failed
	// once with an identical signature, so the loop ended deliberately to
	// avoid infinite retry.
	StopLoopBreak StopReason = "loop_break"
	// StopTruncated means the iteration ceiling was reached.
	StopTruncated StopReason = "truncated"
)

// TransportError reports that the upstream stream could not be opened or died
// mid-flight. The current iteration is aborted, no turns are appended, and
// the error is surfaced to the caller.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// VendorError reports an explicit error frame from the model provider. It is
// handled identically to TransportError: the iteration is aborted and the
// error surfaces once.
type VendorError struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *VendorError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("provider error: %s", e.Message)
	}
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}
