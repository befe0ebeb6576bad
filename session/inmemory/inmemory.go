//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides a process-local session recorder.
package inmemory

import (
	"context"
	"sync"

	"github.com/sommda/gamemaster-client/session"
)

// Recorder stores exchanges in process memory, keyed by session. Safe for
// concurrent use.
type Recorder struct {
	mu       sync.RWMutex
	sessions map[string][]session.Exchange
}

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{sessions: make(map[string][]session.Exchange)}
}

// Append implements the session.Recorder interface.
func (r *Recorder) Append(ctx context.Context, key string, exchange session.Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[key] = append(r.sessions[key], exchange)
	return nil
}

// List implements the session.Recorder interface.
func (r *Recorder) List(ctx context.Context, key string) ([]session.Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	exchanges := r.sessions[key]
	out := make([]session.Exchange, len(exchanges))
	copy(out, exchanges)
	return out, nil
}
