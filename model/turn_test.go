//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureCompactsArguments(t *testing.T) {
	a := ToolCallRecord{Name: "roll_dice", Arguments: json.RawMessage(`{"sides": 20}`)}
	b := ToolCallRecord{Name: "roll_dice", Arguments: json.RawMessage(`{"sides":20}`)}

	// Formatting differences must not defeat the match.
	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureDistinguishesArguments(t *testing.T) {
	a := ToolCallRecord{Name: "roll_dice", Arguments: json.RawMessage(`{"sides":20}`)}
	b := ToolCallRecord{Name: "roll_dice", Arguments: json.RawMessage(`{"sides":6}`)}
	c := ToolCallRecord{Name: "lookup", Arguments: json.RawMessage(`{"sides":20}`)}

	assert.NotEqual(t, a.Signature(), b.Signature())
	assert.NotEqual(t, a.Signature(), c.Signature())
}

func TestSignatureIgnoresCallID(t *testing.T) {
	a := ToolCallRecord{ID: "call_1", Name: "roll_dice", Arguments: json.RawMessage(`{}`)}
	b := ToolCallRecord{ID: "call_2", Name: "roll_dice", Arguments: json.RawMessage(`{}`)}

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureKeepsRawInvalidArguments(t *testing.T) {
	a := ToolCallRecord{Name: "roll_dice", Arguments: json.RawMessage(`{"sides":`)}
	assert.Equal(t, `roll_dice({"sides":)`, a.Signature())
}

func TestResultIsError(t *testing.T) {
	assert.True(t, ToolResultRecord{Content: ErrorToolNotFound}.IsError())
	assert.True(t, ToolResultRecord{Content: "Error: something else"}.IsError())
	assert.False(t, ToolResultRecord{Content: "all good"}.IsError())
	assert.False(t, ToolResultRecord{Content: ""}.IsError())
}

func TestConversationLastUserText(t *testing.T) {
	conv := NewConversation(
		NewUserTurn("first"),
		NewAssistantTurn("reply"),
		NewUserTurn("second"),
		NewAssistantTurn("another"),
	)
	assert.Equal(t, "second", conv.LastUserText())

	empty := NewConversation(NewAssistantTurn("unprompted"))
	assert.Equal(t, "", empty.LastUserText())
}

func TestProviderValidity(t *testing.T) {
	assert.True(t, ProviderAnthropic.IsValid())
	assert.True(t, ProviderOpenAI.IsValid())
	assert.False(t, Provider("mystery").IsValid())
}
