//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"encoding/json"
	"strings"

	"github.com/sommda/gamemaster-client/log"
)

// openaiFrame is the subset of the OpenAI Responses streaming frame
// vocabulary the normalizer cares about.
type openaiFrame struct {
	Type        string `json:"type"`
	Delta       string `json:"delta"`
	OutputIndex int    `json:"output_index"`
	ItemID      string `json:"item_id"`
	Item        struct {
		Type      string `json:"type"`
		ID        string `json:"id"`
		CallID    string `json:"call_id"`
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"item"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// pendingOutput buffers positional argument deltas for one output item until
// the authoritative end-of-turn summary resolves them to a call id.
type pendingOutput struct {
	buf    strings.Builder
	minted bool
}

// openaiNormalizer maps the OpenAI Responses frame vocabulary onto the
// normalized event model. Argument deltas are keyed only by output index, not
// by a stable id, and the authoritative {call_id, name, arguments} triple
// arrives in a single summary item at end of turn. The normalizer therefore
// buffers deltas per position and mints a retroactive
// ToolCallStart/ToolInputDelta/ToolCallComplete sequence when the summary
// lands. Text deltas pass through immediately.
type openaiNormalizer struct {
	outputs map[int]*pendingOutput
	done    bool
}

func newOpenAINormalizer() *openaiNormalizer {
	return &openaiNormalizer{outputs: make(map[int]*pendingOutput)}
}

// Normalize implements the Normalizer interface.
func (n *openaiNormalizer) Normalize(event string, data []byte) []Event {
	if n.done {
		return nil
	}

	var frame openaiFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Debugf("Skipping malformed openai frame: %v", err)
		return nil
	}
	frameType := frame.Type
	if frameType == "" {
		frameType = event
	}

	switch frameType {
	case "response.output_text.delta":
		if frame.Delta == "" {
			return nil
		}
		return []Event{{Type: EventTextDelta, Text: frame.Delta}}

	case "response.function_call_arguments.delta":
		if frame.Delta == "" {
			return nil
		}
		n.output(frame.OutputIndex).buf.WriteString(frame.Delta)
		return nil

	case "response.output_item.done":
		if frame.Item.Type != "function_call" {
			return nil
		}
		return n.mint(frame.OutputIndex, frame.Item.CallID, frame.Item.Name, frame.Item.Arguments)

	case "response.completed":
		n.done = true
		return append(n.flushUnminted(), Event{Type: EventTurnDone})

	case "response.failed", "error":
		n.done = true
		return []Event{{
			Type:    EventError,
			Code:    frame.Error.Code,
			Message: frame.Error.Message,
		}}
	}

	return nil
}

// Finish implements the Normalizer interface.
func (n *openaiNormalizer) Finish() []Event {
	if n.done {
		return nil
	}
	n.done = true
	return append(n.flushUnminted(), Event{Type: EventTurnDone})
}

func (n *openaiNormalizer) output(index int) *pendingOutput {
	out, ok := n.outputs[index]
	if !ok {
		out = &pendingOutput{}
		n.outputs[index] = out
	}
	return out
}

// mint emits the retroactive start/delta/complete sequence for one resolved
// call. The summary's argument string is authoritative; the buffered deltas
// are the fallback when a gateway omits it.
func (n *openaiNormalizer) mint(index int, callID, name, arguments string) []Event {
	out := n.output(index)
	if out.minted {
		return nil
	}
	out.minted = true

	args := arguments
	if args == "" {
		args = out.buf.String()
	}
	events := []Event{{Type: EventToolCallStart, ID: callID, Name: name}}
	if args != "" {
		events = append(events, Event{
			Type:     EventToolInputDelta,
			Fragment: args,
			TargetID: callID,
		})
	}
	return append(events, Event{Type: EventToolCallComplete})
}

// flushUnminted logs positions that accumulated fragments but never received
// a summary item. Without the authoritative call id and name there is nothing
// to hand to the assembler; dropping silently would hide a protocol problem.
func (n *openaiNormalizer) flushUnminted() []Event {
	for index, out := range n.outputs {
		if !out.minted && out.buf.Len() > 0 {
			log.Warnf("Discarding %d bytes of unresolved tool-call fragments at output index %d",
				out.buf.Len(), index)
		}
	}
	return nil
}
