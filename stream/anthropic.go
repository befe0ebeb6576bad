//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package stream

import (
	"encoding/json"

	"github.com/sommda/gamemaster-client/log"
)

// anthropicFrame is the subset of the Anthropic streaming frame vocabulary
// the normalizer cares about. Unknown fields are ignored.
type anthropicFrame struct {
	Type         string `json:"type"`
	Index        int    `json:"index"`
	ContentBlock struct {
		Type  string          `json:"type"`
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Input json.RawMessage `json:"input"`
	} `json:"content_block"`
	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text"`
		PartialJSON string `json:"partial_json"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// anthropicNormalizer maps the Anthropic frame vocabulary onto the
// normalized event model. Tool-call ids are known from the opening
// content_block_start frame, so events can be emitted live.
type anthropicNormalizer struct {
	// callsByIndex maps a content block index to its tool-call id so that
	// input_json_delta frames, which are keyed by block index, can carry a
	// routing hint.
	callsByIndex map[int]string
	done         bool
}

func newAnthropicNormalizer() *anthropicNormalizer {
	return &anthropicNormalizer{callsByIndex: make(map[int]string)}
}

// Normalize implements the Normalizer interface.
func (n *anthropicNormalizer) Normalize(event string, data []byte) []Event {
	if n.done {
		return nil
	}

	var frame anthropicFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		// Framing noise; skip.
		log.Debugf("Skipping malformed anthropic frame: %v", err)
		return nil
	}
	frameType := frame.Type
	if frameType == "" {
		frameType = event
	}

	switch frameType {
	case "content_block_start":
		if frame.ContentBlock.Type != "tool_use" {
			return nil
		}
		n.callsByIndex[frame.Index] = frame.ContentBlock.ID
		return []Event{{
			Type:         EventToolCallStart,
			ID:           frame.ContentBlock.ID,
			Name:         frame.ContentBlock.Name,
			PartialInput: initialToolInput(frame.ContentBlock.Input),
		}}

	case "content_block_delta":
		switch frame.Delta.Type {
		case "text_delta":
			if frame.Delta.Text == "" {
				return nil
			}
			return []Event{{Type: EventTextDelta, Text: frame.Delta.Text}}
		case "input_json_delta":
			if frame.Delta.PartialJSON == "" {
				return nil
			}
			return []Event{{
				Type:     EventToolInputDelta,
				Fragment: frame.Delta.PartialJSON,
				TargetID: n.callsByIndex[frame.Index],
			}}
		}
		return nil

	case "content_block_stop":
		if _, ok := n.callsByIndex[frame.Index]; !ok {
			return nil
		}
		return []Event{{Type: EventToolCallComplete}}

	case "message_stop":
		n.done = true
		return []Event{{Type: EventTurnDone}}

	case "error":
		n.done = true
		return []Event{{
			Type:    EventError,
			Code:    frame.Error.Type,
			Message: frame.Error.Message,
		}}
	}

	// message_start, message_delta, ping and friends carry nothing we need.
	return nil
}

// Finish implements the Normalizer interface.
func (n *anthropicNormalizer) Finish() []Event {
	return nil
}

// initialToolInput returns the input JSON observed on a content_block_start
// frame, dropping the empty-object placeholder the wire protocol emits before
// any input_json_delta arrives.
func initialToolInput(input json.RawMessage) string {
	s := string(input)
	if s == "" || s == "{}" || s == "null" {
		return ""
	}
	return s
}
