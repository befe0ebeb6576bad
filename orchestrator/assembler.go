//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/stream"
)

// pendingToolCall is one tool call under assembly.
type pendingToolCall struct {
	id        string
	name      string
	buf       strings.Builder
	arguments json.RawMessage
	complete  bool
}

// assembler accumulates tool-call events of one model turn into completed
// call records. Argument fragments are routed to the event's target call when
// one is named, otherwise to the most recently started call that is still
// open. A fragment whose accumulated text balances its braces closes the
// call's arguments early; everything still open is finalized when the turn
// ends. Argument text that never parses as JSON is kept verbatim: assembly
// failures are the tool executor's problem, not the stream's.
type assembler struct {
	pending []*pendingToolCall
}

func newAssembler() *assembler {
	return &assembler{}
}

// observe feeds one normalized event into the assembler. Non-tool events are
// ignored.
func (a *assembler) observe(ev stream.Event) {
	switch ev.Type {
	case stream.EventToolCallStart:
		call := &pendingToolCall{id: ev.ID, name: ev.Name}
		if ev.PartialInput != "" {
			call.buf.WriteString(ev.PartialInput)
		}
		a.pending = append(a.pending, call)

	case stream.EventToolInputDelta:
		call := a.route(ev.TargetID)
		if call == nil {
			log.Warnf("Dropping tool input fragment with no open call (target=%q, %d bytes)",
				ev.TargetID, len(ev.Fragment))
			return
		}
		call.buf.WriteString(ev.Fragment)
		if bracesBalanced(call.buf.String()) {
			a.finalize(call)
		}

	case stream.EventToolCallComplete:
		if call := a.lastOpen(); call != nil {
			a.finalize(call)
		}
	}
}

// finish finalizes everything still open and returns the completed calls in
// start order.
func (a *assembler) finish() []model.ToolCallRecord {
	for _, call := range a.pending {
		if !call.complete {
			a.finalize(call)
		}
	}

	calls := make([]model.ToolCallRecord, 0, len(a.pending))
	for _, call := range a.pending {
		calls = append(calls, model.ToolCallRecord{
			ID:        call.id,
			Name:      call.name,
			Arguments: call.arguments,
		})
	}
	return calls
}

// route picks the call a fragment belongs to: the named target if it is
// still open, otherwise the most recently started open call.
func (a *assembler) route(targetID string) *pendingToolCall {
	if targetID != "" {
		for i := len(a.pending) - 1; i >= 0; i-- {
			if call := a.pending[i]; call.id == targetID && !call.complete {
				return call
			}
		}
	}
	return a.lastOpen()
}

func (a *assembler) lastOpen() *pendingToolCall {
	for i := len(a.pending) - 1; i >= 0; i-- {
		if !a.pending[i].complete {
			return a.pending[i]
		}
	}
	return nil
}

// finalize snapshots the call's accumulated argument text. Text that does
// not parse as JSON is logged and kept as-is.
func (a *assembler) finalize(call *pendingToolCall) {
	call.complete = true
	raw := call.buf.String()
	if raw == "" {
		call.arguments = nil
		return
	}
	if !json.Valid([]byte(raw)) {
		log.Warnf("Tool call %s (%s) completed with unparseable arguments, keeping raw text",
			call.name, call.id)
	}
	call.arguments = json.RawMessage(raw)
}

// bracesBalanced reports whether the argument text has opened at least one
// brace and closed them all. Deliberately naive: brace characters inside
// string literals count too. The turn-end finalize pass backstops any text
// this misjudges.
func bracesBalanced(s string) bool {
	open, closed := 0, 0
	for _, r := range s {
		switch r {
		case '{':
			open++
		case '}':
			closed++
		}
	}
	return open > 0 && open == closed
}
