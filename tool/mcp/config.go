//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package mcp

import (
	"fmt"
	"time"

	mcp "trpc.group/trpc-go/trpc-mcp-go"
)

// Transport names accepted by ConnectionConfig.
const (
	TransportStdio      = "stdio"
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

var defaultClientInfo = mcp.Implementation{
	Name:    "gamemaster-client",
	Version: "1.0.0",
}

// ConnectionConfig describes how to reach an MCP tool server.
type ConnectionConfig struct {
	// Transport selects the connection type: stdio, sse or streamable.
	Transport string

	// ServerURL is the endpoint for sse and streamable transports.
	ServerURL string

	// Command and Args launch the server process for the stdio transport.
	Command string
	Args    []string

	// Headers are extra HTTP headers for HTTP-based transports.
	Headers map[string]string

	// Timeout bounds each MCP request. Zero means no per-request timeout.
	Timeout time.Duration

	// ClientInfo identifies this client during the MCP handshake.
	ClientInfo mcp.Implementation
}

// Option configures a Runtime.
type Option func(*runtimeOptions)

type runtimeOptions struct {
	mcpOptions []mcp.ClientOption
	tags       []string
}

// WithClientOptions passes extra options to the underlying MCP client.
func WithClientOptions(opts ...mcp.ClientOption) Option {
	return func(o *runtimeOptions) {
		o.mcpOptions = append(o.mcpOptions, opts...)
	}
}

// WithTags stamps every declaration served by the runtime with the given
// labels.
func WithTags(tags ...string) Option {
	return func(o *runtimeOptions) {
		o.tags = tags
	}
}

func validateTransport(transport string) (string, error) {
	switch transport {
	case TransportStdio, TransportSSE, TransportStreamable:
		return transport, nil
	case "":
		return TransportStreamable, nil
	default:
		return "", fmt.Errorf("unsupported transport: %s", transport)
	}
}
