//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package wire

import (
	"encoding/json"
	"fmt"

	"github.com/sommda/gamemaster-client/model"
)

// openaiItem is one entry of the OpenAI Responses input list. Unlike the
// Anthropic shape, tool calls and tool outputs are not nested inside a
// message: each call is its own standalone function_call record and each
// result its own function_call_output record, siblings in the running list.
type openaiItem struct {
	Type      string `json:"type"`
	Role      string `json:"role,omitempty"`
	Content   string `json:"content,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
}

// marshalOpenAI produces the OpenAI Responses input item list.
func marshalOpenAI(turns []model.Turn) (json.RawMessage, error) {
	items := make([]openaiItem, 0, len(turns))
	for _, turn := range turns {
		switch turn.Kind {
		case model.TurnUser:
			items = append(items, openaiItem{Type: "message", Role: "user", Content: turn.Text})

		case model.TurnAssistant:
			items = append(items, openaiItem{Type: "message", Role: "assistant", Content: turn.Text})

		case model.TurnToolCalls:
			if turn.Text != "" {
				items = append(items, openaiItem{Type: "message", Role: "assistant", Content: turn.Text})
			}
			for _, call := range turn.Calls {
				items = append(items, openaiItem{
					Type:      "function_call",
					CallID:    call.ID,
					Name:      call.Name,
					Arguments: rawArgumentString(call.Arguments),
				})
			}

		case model.TurnToolResults:
			for _, result := range turn.Results {
				items = append(items, openaiItem{
					Type:   "function_call_output",
					CallID: result.CallID,
					Output: result.Content,
				})
			}

		default:
			return nil, fmt.Errorf("unknown turn kind: %s", turn.Kind)
		}
	}
	return json.Marshal(items)
}

// parseOpenAI rebuilds turns from the flat item list. Consecutive
// function_call items regroup into one tool-call turn, adopting a directly
// preceding assistant message as the turn's streamed text; consecutive
// function_call_output items regroup into one results turn.
func parseOpenAI(raw json.RawMessage) ([]model.Turn, error) {
	var items []openaiItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse openai items: %w", err)
	}

	var turns []model.Turn
	for i := 0; i < len(items); i++ {
		item := items[i]
		switch item.Type {
		case "message":
			if item.Role == "assistant" && i+1 < len(items) && items[i+1].Type == "function_call" {
				// Streamed text belonging to the tool-call turn that follows.
				calls, next := collectCalls(items, i+1)
				turns = append(turns, model.NewToolCallsTurn(item.Content, calls))
				i = next - 1
				continue
			}
			if item.Role == "assistant" {
				turns = append(turns, model.NewAssistantTurn(item.Content))
			} else {
				turns = append(turns, model.NewUserTurn(item.Content))
			}

		case "function_call":
			calls, next := collectCalls(items, i)
			turns = append(turns, model.NewToolCallsTurn("", calls))
			i = next - 1

		case "function_call_output":
			var results []model.ToolResultRecord
			for ; i < len(items) && items[i].Type == "function_call_output"; i++ {
				results = append(results, model.ToolResultRecord{
					CallID:  items[i].CallID,
					Content: items[i].Output,
				})
			}
			i--
			turns = append(turns, model.NewToolResultsTurn(results))

		default:
			return nil, fmt.Errorf("unknown item type: %s", item.Type)
		}
	}
	return turns, nil
}

// collectCalls gathers the run of function_call items starting at index
// start and returns the records plus the index one past the run.
func collectCalls(items []openaiItem, start int) ([]model.ToolCallRecord, int) {
	var calls []model.ToolCallRecord
	i := start
	for ; i < len(items) && items[i].Type == "function_call"; i++ {
		calls = append(calls, model.ToolCallRecord{
			ID:        items[i].CallID,
			Name:      items[i].Name,
			Arguments: json.RawMessage(items[i].Arguments),
		})
	}
	return calls, i
}
