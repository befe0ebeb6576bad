//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package replay serves scripted model turns over SSE. It stands in for a
// real streaming backend during development and in transport tests: scripts
// are enqueued frame lists, and each opened session consumes the next one.
package replay

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/transport"
)

// Server replays enqueued frame scripts, one script per session.
type Server struct {
	mu      sync.Mutex
	scripts [][]transport.Frame

	// requests keeps the decoded payload of every session opened, in order,
	// so callers can assert on what was sent.
	requests []transport.Payload
}

// New creates an empty replay server.
func New() *Server {
	return &Server{}
}

// Enqueue adds one script: the frames of a single model turn.
func (s *Server) Enqueue(frames ...transport.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, frames)
}

// Requests returns the payloads received so far.
func (s *Server) Requests() []transport.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]transport.Payload, len(s.requests))
	copy(out, s.requests)
	return out
}

// Handler returns the HTTP handler: POST /v1/session streams the next
// script, GET /healthz reports liveness. CORS is open so browser-based dev
// clients can talk to it directly.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/v1/session", s.handleSession).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	}).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	var payload transport.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("decode payload: %v", err), http.StatusBadRequest)
		return
	}

	script, ok := s.nextScript(payload)
	if !ok {
		http.Error(w, "no script enqueued", http.StatusConflict)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for _, frame := range script {
		select {
		case <-r.Context().Done():
			log.Debugf("Replay session aborted by client")
			return
		default:
		}
		if frame.Event != "" {
			fmt.Fprintf(w, "event: %s\n", frame.Event)
		}
		fmt.Fprintf(w, "data: %s\n\n", frame.Data)
		flusher.Flush()
	}
}

func (s *Server) nextScript(payload transport.Payload) ([]transport.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, payload)
	if len(s.scripts) == 0 {
		return nil, false
	}
	script := s.scripts[0]
	s.scripts = s.scripts[1:]
	return script, true
}
