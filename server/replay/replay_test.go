//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package replay

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sommda/gamemaster-client/transport"
)

func TestSessionsConsumeScriptsInOrder(t *testing.T) {
	s := New()
	s.Enqueue(transport.Frame{Event: "first", Data: []byte(`{"n":1}`)})
	s.Enqueue(transport.Frame{Event: "second", Data: []byte(`{"n":2}`)})
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	body1 := openSession(t, server.URL)
	assert.Contains(t, body1, "event: first")
	assert.Contains(t, body1, `data: {"n":1}`)

	body2 := openSession(t, server.URL)
	assert.Contains(t, body2, "event: second")

	resp, err := http.Post(server.URL+"/v1/session", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := httptest.NewServer(New().Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRejectsBadPayload(t *testing.T) {
	server := httptest.NewServer(New().Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/session", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func openSession(t *testing.T, baseURL string) string {
	t.Helper()
	resp, err := http.Post(baseURL+"/v1/session", "application/json", strings.NewReader(`{"provider":"anthropic"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		b.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return b.String()
}
