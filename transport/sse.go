//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/model"
)

// SSEClient is a Transport that POSTs the session payload to an HTTP
// endpoint and reads the model turn back as a Server-Sent Events stream.
type SSEClient struct {
	endpoint string
	client   *http.Client
	headers  map[string]string
}

// SSEOption configures an SSEClient.
type SSEOption func(*SSEClient)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(c *http.Client) SSEOption {
	return func(s *SSEClient) {
		s.client = c
	}
}

// WithHeader adds a header to every session request.
func WithHeader(key, value string) SSEOption {
	return func(s *SSEClient) {
		s.headers[key] = value
	}
}

// NewSSEClient creates a transport talking to the given endpoint.
func NewSSEClient(endpoint string, opts ...SSEOption) *SSEClient {
	s := &SSEClient{
		endpoint: endpoint,
		client:   http.DefaultClient,
		headers:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenSession implements the Transport interface.
func (s *SSEClient) OpenSession(ctx context.Context, payload Payload) (Stream, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.TransportError{Op: "encode payload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &model.TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &model.TransportError{Op: "open session", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &model.TransportError{
			Op:  "open session",
			Err: fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	log.Debugf("Session opened against %s (provider=%s)", s.endpoint, payload.Provider)
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseStream{body: resp.Body, scanner: scanner}, nil
}

// sseStream reads SSE frames off the response body. One Recv call returns
// one complete event (the lines up to a blank separator).
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// Recv implements the Stream interface.
func (s *sseStream) Recv() (Frame, error) {
	var eventName string
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" {
			if dataBuf.Len() == 0 {
				eventName = ""
				continue
			}
			return Frame{Event: eventName, Data: []byte(dataBuf.String())}, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if strings.HasPrefix(line, "event:") {
			eventName = strings.TrimSpace(line[6:])
			continue
		}
		if strings.HasPrefix(line, "data:") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			// The SSE discipline strips exactly one space after the colon;
			// everything else is payload.
			dataBuf.WriteString(strings.TrimPrefix(line[5:], " "))
		}
	}
	if err := s.scanner.Err(); err != nil {
		return Frame{}, &model.TransportError{Op: "read stream", Err: err}
	}
	if dataBuf.Len() > 0 {
		// Stream ended without a trailing blank line.
		return Frame{Event: eventName, Data: []byte(dataBuf.String())}, nil
	}
	return Frame{}, io.EOF
}

// Close implements the Stream interface.
func (s *sseStream) Close() error {
	return s.body.Close()
}
