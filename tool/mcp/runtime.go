//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package mcp exposes an MCP tool server as a tool runtime.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/sommda/gamemaster-client/log"
	"github.com/sommda/gamemaster-client/tool"
)

// reconnectErrorPatterns are error fragments that indicate the session is
// gone and a single reconnect-and-retry is worth attempting. Configuration
// errors (bad DNS, bad URL) are deliberately excluded.
var reconnectErrorPatterns = []string{
	"session_expired:",
	"transport is closed",
	"client not initialized",
	"not initialized",
	"connection refused",
	"connection reset",
	"EOF",
	"broken pipe",
	"session not found",
}

// Runtime implements the tool.Runtime interface against an MCP server. It
// connects lazily on first use and reconnects once when the session drops
// mid-operation.
type Runtime struct {
	config  ConnectionConfig
	options runtimeOptions

	mu          sync.RWMutex
	client      mcp.Connector
	initialized bool

	reconnectGroup singleflight.Group
}

// NewRuntime creates a runtime for the given server. No connection is made
// until the first ListTools or CallTool.
func NewRuntime(config ConnectionConfig, opts ...Option) *Runtime {
	options := runtimeOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if config.ClientInfo.Name == "" {
		config.ClientInfo = defaultClientInfo
	}
	return &Runtime{config: config, options: options}
}

// ListTools implements the tool.Runtime interface.
func (r *Runtime) ListTools(ctx context.Context) ([]*tool.Declaration, error) {
	var decls []*tool.Declaration
	err := r.withSession(ctx, func(client mcp.Connector) error {
		listCtx, cancel := r.requestContext(ctx)
		defer cancel()

		resp, err := client.ListTools(listCtx, &mcp.ListToolsRequest{})
		if err != nil {
			return fmt.Errorf("list tools: %w", err)
		}

		decls = make([]*tool.Declaration, 0, len(resp.Tools))
		for _, t := range resp.Tools {
			decls = append(decls, &tool.Declaration{
				Name:        t.Name,
				Description: t.Description,
				InputSchema: convertSchema(t.InputSchema),
				Tags:        r.options.tags,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("Listed %d tools from MCP server", len(decls))
	return decls, nil
}

// CallTool implements the tool.Runtime interface. The result is the flattened
// text of the response content blocks.
func (r *Runtime) CallTool(ctx context.Context, name string, jsonArgs []byte) (any, error) {
	var arguments map[string]any
	if len(jsonArgs) > 0 {
		if err := json.Unmarshal(jsonArgs, &arguments); err != nil {
			return nil, fmt.Errorf("parse tool arguments: %w", err)
		}
	} else {
		arguments = make(map[string]any)
	}

	var result string
	err := r.withSession(ctx, func(client mcp.Connector) error {
		callCtx, cancel := r.requestContext(ctx)
		defer cancel()

		callReq := &mcp.CallToolRequest{}
		callReq.Params.Name = name
		callReq.Params.Arguments = arguments

		resp, err := client.CallTool(callCtx, callReq)
		if err != nil {
			return fmt.Errorf("call tool %s: %w", name, err)
		}
		result = flattenContent(resp.Content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close shuts down the MCP connection.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	r.initialized = false
	if err != nil {
		return fmt.Errorf("close MCP client: %w", err)
	}
	return nil
}

// withSession runs op against a connected client, reconnecting once when the
// failure looks like a dropped session.
func (r *Runtime) withSession(ctx context.Context, op func(client mcp.Connector) error) error {
	client, err := r.session(ctx)
	if err != nil {
		return err
	}

	err = op(client)
	if err == nil || !isReconnectable(err) {
		return err
	}

	log.Debugf("MCP session error, reconnecting: %v", err)
	client, reconnectErr := r.reconnect(ctx)
	if reconnectErr != nil {
		log.Warnf("MCP reconnect failed: %v", reconnectErr)
		return err
	}
	return op(client)
}

// session returns the connected client, dialing and initializing on first use.
func (r *Runtime) session(ctx context.Context) (mcp.Connector, error) {
	r.mu.RLock()
	if r.initialized {
		client := r.client
		r.mu.RUnlock()
		return client, nil
	}
	r.mu.RUnlock()
	return r.reconnect(ctx)
}

// reconnect tears down any existing client and establishes a fresh session.
// Concurrent callers collapse into a single dial.
func (r *Runtime) reconnect(ctx context.Context) (mcp.Connector, error) {
	v, err, _ := r.reconnectGroup.Do("reconnect", func() (any, error) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.client != nil {
			if closeErr := r.client.Close(); closeErr != nil {
				log.Warnf("Closing stale MCP client: %v", closeErr)
			}
			r.client = nil
			r.initialized = false
		}

		client, err := r.createClient()
		if err != nil {
			return nil, fmt.Errorf("create MCP client: %w", err)
		}

		initCtx, cancel := r.requestContext(ctx)
		defer cancel()
		initResp, err := client.Initialize(initCtx, &mcp.InitializeRequest{})
		if err != nil {
			if closeErr := client.Close(); closeErr != nil {
				log.Warnf("Closing MCP client after failed initialize: %v", closeErr)
			}
			return nil, fmt.Errorf("initialize MCP session: %w", err)
		}
		log.Debugf("MCP session established with %s %s (protocol %s)",
			initResp.ServerInfo.Name, initResp.ServerInfo.Version, initResp.ProtocolVersion)

		r.client = client
		r.initialized = true
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(mcp.Connector), nil
}

// createClient builds the transport-appropriate MCP client.
func (r *Runtime) createClient() (mcp.Connector, error) {
	transport, err := validateTransport(r.config.Transport)
	if err != nil {
		return nil, err
	}

	switch transport {
	case TransportStdio:
		config := mcp.StdioTransportConfig{
			ServerParams: mcp.StdioServerParameters{
				Command: r.config.Command,
				Args:    r.config.Args,
			},
			Timeout: r.config.Timeout,
		}
		return mcp.NewStdioClient(config, r.config.ClientInfo)

	case TransportSSE:
		return mcp.NewSSEClient(r.config.ServerURL, r.config.ClientInfo, r.httpOptions()...)

	case TransportStreamable:
		return mcp.NewClient(r.config.ServerURL, r.config.ClientInfo, r.httpOptions()...)

	default:
		return nil, fmt.Errorf("unsupported transport: %s", transport)
	}
}

func (r *Runtime) httpOptions() []mcp.ClientOption {
	var options []mcp.ClientOption
	if len(r.config.Headers) > 0 {
		headers := http.Header{}
		for k, v := range r.config.Headers {
			headers.Set(k, v)
		}
		options = append(options, mcp.WithHTTPHeaders(headers))
	}
	return append(options, r.options.mcpOptions...)
}

// requestContext applies the configured per-request timeout unless the caller
// already set a deadline.
func (r *Runtime) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.config.Timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			return context.WithTimeout(ctx, r.config.Timeout)
		}
	}
	return ctx, func() {}
}

func isReconnectable(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	for _, pattern := range reconnectErrorPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
