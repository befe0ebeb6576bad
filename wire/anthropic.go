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

// anthropicMessage is one message in the Anthropic wire shape: a role plus an
// ordered list of content blocks.
type anthropicMessage struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

// anthropicBlock is a closed union over the block types the client produces:
// text, tool_use and tool_result.
type anthropicBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

// marshalAnthropic produces the Anthropic message array. An assistant
// tool-call turn becomes a single assistant message whose content is an
// optional text block followed by one tool_use block per call; the results
// turn becomes a user-role message of tool_result blocks tagged by call id.
func marshalAnthropic(turns []model.Turn) (json.RawMessage, error) {
	messages := make([]anthropicMessage, 0, len(turns))
	for _, turn := range turns {
		switch turn.Kind {
		case model.TurnUser:
			messages = append(messages, anthropicMessage{
				Role:    "user",
				Content: []anthropicBlock{{Type: "text", Text: turn.Text}},
			})

		case model.TurnAssistant:
			messages = append(messages, anthropicMessage{
				Role:    "assistant",
				Content: []anthropicBlock{{Type: "text", Text: turn.Text}},
			})

		case model.TurnToolCalls:
			blocks := make([]anthropicBlock, 0, len(turn.Calls)+1)
			if turn.Text != "" {
				blocks = append(blocks, anthropicBlock{Type: "text", Text: turn.Text})
			}
			for _, call := range turn.Calls {
				blocks = append(blocks, anthropicBlock{
					Type:  "tool_use",
					ID:    call.ID,
					Name:  call.Name,
					Input: safeArguments(call.Arguments),
				})
			}
			messages = append(messages, anthropicMessage{Role: "assistant", Content: blocks})

		case model.TurnToolResults:
			blocks := make([]anthropicBlock, 0, len(turn.Results))
			for _, result := range turn.Results {
				blocks = append(blocks, anthropicBlock{
					Type:      "tool_result",
					ToolUseID: result.CallID,
					Content:   result.Content,
				})
			}
			messages = append(messages, anthropicMessage{Role: "user", Content: blocks})

		default:
			return nil, fmt.Errorf("unknown turn kind: %s", turn.Kind)
		}
	}
	return json.Marshal(messages)
}

// parseAnthropic rebuilds turns from the Anthropic message array.
func parseAnthropic(raw json.RawMessage) ([]model.Turn, error) {
	var messages []anthropicMessage
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("parse anthropic messages: %w", err)
	}

	turns := make([]model.Turn, 0, len(messages))
	for _, msg := range messages {
		var text string
		var calls []model.ToolCallRecord
		var results []model.ToolResultRecord
		for _, block := range msg.Content {
			switch block.Type {
			case "text":
				if text == "" {
					text = block.Text
				}
			case "tool_use":
				calls = append(calls, model.ToolCallRecord{
					ID:        block.ID,
					Name:      block.Name,
					Arguments: block.Input,
				})
			case "tool_result":
				results = append(results, model.ToolResultRecord{
					CallID:  block.ToolUseID,
					Content: block.Content,
				})
			}
		}

		switch {
		case msg.Role == "assistant" && len(calls) > 0:
			turns = append(turns, model.NewToolCallsTurn(text, calls))
		case msg.Role == "assistant":
			turns = append(turns, model.NewAssistantTurn(text))
		case len(results) > 0:
			turns = append(turns, model.NewToolResultsTurn(results))
		default:
			turns = append(turns, model.NewUserTurn(text))
		}
	}
	return turns, nil
}
