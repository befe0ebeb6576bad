//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package transport defines the session boundary between the orchestration
// loop and the streaming backend, plus an SSE implementation of it.
package transport

import (
	"context"
	"encoding/json"

	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/tool"
)

// Payload is one model request: the serialized conversation plus the tool
// declarations and sampling parameters for this turn.
type Payload struct {
	Provider     model.Provider      `json:"provider"`
	Model        string              `json:"model,omitempty"`
	SystemPrompt string              `json:"system_prompt,omitempty"`
	Turns        json.RawMessage     `json:"turns"`
	Tools        []*tool.Declaration `json:"tools,omitempty"`
	MaxTokens    int                 `json:"max_tokens,omitempty"`
	Temperature  *float64            `json:"temperature,omitempty"`
}

// Frame is one raw streaming frame as received from the backend: the event
// name from the framing layer and the undecoded data payload.
type Frame struct {
	Event string
	Data  []byte
}

// Stream yields the frames of one model turn. Recv returns io.EOF when the
// backend closes the stream cleanly.
type Stream interface {
	Recv() (Frame, error)
	Close() error
}

// Transport opens streaming sessions against a backend.
type Transport interface {
	OpenSession(ctx context.Context, payload Payload) (Stream, error)
}
