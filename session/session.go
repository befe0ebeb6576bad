//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package session defines the conversation persistence boundary.
package session

import (
	"context"
	"time"
)

// Exchange is one completed user/assistant round trip. Intermediate tool
// traffic is not persisted; only the user's text and the final reply are.
type Exchange struct {
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
	Timestamp     time.Time `json:"timestamp"`
}

// Recorder persists completed exchanges under a session key.
type Recorder interface {
	// Append stores one exchange at the end of the keyed session.
	Append(ctx context.Context, key string, exchange Exchange) error

	// List returns the exchanges of the keyed session in append order.
	List(ctx context.Context, key string) ([]Exchange, error)
}
