//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package transport_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sommda/gamemaster-client/model"
	"github.com/sommda/gamemaster-client/server/replay"
	"github.com/sommda/gamemaster-client/transport"
)

func TestOpenSessionStreamsFrames(t *testing.T) {
	backend := replay.New()
	backend.Enqueue(
		transport.Frame{Event: "content_block_delta", Data: []byte(`{"type":"content_block_delta"}`)},
		transport.Frame{Event: "message_stop", Data: []byte(`{"type":"message_stop"}`)},
	)
	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	client := transport.NewSSEClient(server.URL+"/v1/session",
		transport.WithHeader("X-Api-Key", "secret"))

	stream, err := client.OpenSession(context.Background(), transport.Payload{
		Provider: model.ProviderAnthropic,
	})
	require.NoError(t, err)
	defer stream.Close()

	frame, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "content_block_delta", frame.Event)
	assert.JSONEq(t, `{"type":"content_block_delta"}`, string(frame.Data))

	frame, err = stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "message_stop", frame.Event)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)

	requests := backend.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, model.ProviderAnthropic, requests[0].Provider)
}

func TestOpenSessionNonOKStatus(t *testing.T) {
	backend := replay.New()
	// Nothing enqueued: the replay server answers 409.
	server := httptest.NewServer(backend.Handler())
	defer server.Close()

	client := transport.NewSSEClient(server.URL + "/v1/session")
	_, err := client.OpenSession(context.Background(), transport.Payload{
		Provider: model.ProviderOpenAI,
	})

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestOpenSessionConnectionRefused(t *testing.T) {
	client := transport.NewSSEClient("http://127.0.0.1:1/v1/session")
	_, err := client.OpenSession(context.Background(), transport.Payload{
		Provider: model.ProviderAnthropic,
	})

	var transportErr *model.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestRecvStripsOnlyOneLeadingSpaceFromData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data:  padded payload \n")
		io.WriteString(w, "\n")
		io.WriteString(w, "data:bare\n")
		io.WriteString(w, "\n")
	}))
	defer server.Close()

	client := transport.NewSSEClient(server.URL)
	stream, err := client.OpenSession(context.Background(), transport.Payload{})
	require.NoError(t, err)
	defer stream.Close()

	// One leading space goes; interior and trailing whitespace is payload.
	frame, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, " padded payload ", string(frame.Data))

	frame, err = stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "bare", string(frame.Data))
}

func TestRecvSkipsCommentsAndJoinsDataLines(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, ": keepalive\n")
		io.WriteString(w, "event: chunk\n")
		io.WriteString(w, "data: first\n")
		io.WriteString(w, "data: second\n")
		io.WriteString(w, "\n")
	}))
	defer server.Close()

	client := transport.NewSSEClient(server.URL)
	stream, err := client.OpenSession(context.Background(), transport.Payload{})
	require.NoError(t, err)
	defer stream.Close()

	frame, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "chunk", frame.Event)
	assert.Equal(t, "first\nsecond", string(frame.Data))

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}
