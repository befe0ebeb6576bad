//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package model defines the provider-independent conversation data model.
package model

import (
	"bytes"
	"encoding/json"
)

// Provider identifies an upstream language-model provider with its own
// streaming wire format.
type Provider string

// Supported providers.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// IsValid checks if the provider is one of the defined constants.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI:
		return true
	default:
		return false
	}
}

// TurnKind discriminates the variants of a conversation turn.
type TurnKind string

// Turn kind constants.
const (
	TurnUser        TurnKind = "user"
	TurnAssistant   TurnKind = "assistant"
	TurnToolCalls   TurnKind = "tool_calls"
	TurnToolResults TurnKind = "tool_results"
)

// Turn is one logical unit of conversation history. It is a tagged variant:
// exactly the fields implied by Kind are meaningful.
//
//   - TurnUser: Text
//   - TurnAssistant: Text
//   - TurnToolCalls: Text (may be empty) and Calls
//   - TurnToolResults: Results
type Turn struct {
	Kind    TurnKind           `json:"kind"`
	Text    string             `json:"text,omitempty"`
	Calls   []ToolCallRecord   `json:"calls,omitempty"`
	Results []ToolResultRecord `json:"results,omitempty"`
}

// NewUserTurn creates a user text turn.
func NewUserTurn(text string) Turn {
	return Turn{Kind: TurnUser, Text: text}
}

// NewAssistantTurn creates an assistant text turn.
func NewAssistantTurn(text string) Turn {
	return Turn{Kind: TurnAssistant, Text: text}
}

// NewToolCallsTurn creates an assistant turn carrying the text streamed so
// far plus the tool calls requested in the same model turn.
func NewToolCallsTurn(text string, calls []ToolCallRecord) Turn {
	return Turn{Kind: TurnToolCalls, Text: text, Calls: calls}
}

// NewToolResultsTurn creates a turn carrying the results for the immediately
// preceding tool-call turn.
func NewToolResultsTurn(results []ToolResultRecord) Turn {
	return Turn{Kind: TurnToolResults, Results: results}
}

// ToolCallRecord is one completed tool call requested by the model.
// ID is provider-assigned, opaque, and unique only within one orchestration
// run; it is the join key between a call and its eventual result.
type ToolCallRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Signature returns the (name, serialized arguments) pair used for
// failure-loop detection. Arguments are compacted when they are valid JSON so
// that formatting differences do not defeat the match.
func (c ToolCallRecord) Signature() string {
	args := c.Arguments
	if json.Valid(args) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, args); err == nil {
			args = buf.Bytes()
		}
	}
	return c.Name + "(" + string(args) + ")"
}

// ToolResultRecord is the outcome of executing one tool call.
type ToolResultRecord struct {
	CallID  string `json:"call_id"`
	Content string `json:"content"`
}

// IsError reports whether the result content carries the reserved error
// prefix signaling tool failure.
func (r ToolResultRecord) IsError() bool {
	return hasErrorPrefix(r.Content)
}

// Conversation is an append-only list of turns. The caller owns the turn
// list; the orchestrator only appends for the lifetime of one run.
type Conversation struct {
	Turns []Turn
}

// NewConversation creates a conversation seeded with the given turns.
func NewConversation(turns ...Turn) *Conversation {
	return &Conversation{Turns: turns}
}

// Append appends turns to the conversation.
func (c *Conversation) Append(turns ...Turn) {
	c.Turns = append(c.Turns, turns...)
}

// LastUserText returns the text of the most recent user turn, or empty.
func (c *Conversation) LastUserText() string {
	for i := len(c.Turns) - 1; i >= 0; i-- {
		if c.Turns[i].Kind == TurnUser {
			return c.Turns[i].Text
		}
	}
	return ""
}
