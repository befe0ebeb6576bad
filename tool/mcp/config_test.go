//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// TestValidateTransport covers accepted and rejected transport strings.
func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTransport string
		wantErr       bool
	}{
		{name: "stdio", input: "stdio", wantTransport: TransportStdio},
		{name: "sse", input: "sse", wantTransport: TransportSSE},
		{name: "streamable", input: "streamable", wantTransport: TransportStreamable},
		{name: "empty defaults to streamable", input: "", wantTransport: TransportStreamable},
		{name: "invalid", input: "websocket", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateTransport(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTransport, got)
		})
	}
}

func TestWithClientOptions(t *testing.T) {
	opts := runtimeOptions{}

	opt1 := func(c *mcp.Client) {}
	opt2 := func(c *mcp.Client) {}
	WithClientOptions(opt1, opt2)(&opts)

	assert.Len(t, opts.mcpOptions, 2)
}

func TestWithTags(t *testing.T) {
	opts := runtimeOptions{}
	WithTags("dice", "lore")(&opts)

	assert.Equal(t, []string{"dice", "lore"}, opts.tags)
}

func TestNewRuntimeDefaultsClientInfo(t *testing.T) {
	r := NewRuntime(ConnectionConfig{Transport: TransportStreamable, ServerURL: "http://localhost:3000/mcp"})
	assert.Equal(t, defaultClientInfo, r.config.ClientInfo)

	custom := mcp.Implementation{Name: "custom", Version: "2.0.0"}
	r = NewRuntime(ConnectionConfig{ClientInfo: custom})
	assert.Equal(t, custom, r.config.ClientInfo)
}
