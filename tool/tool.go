//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package tool provides tool interfaces and implementations for the
// gamemaster client.
package tool

import (
	"context"
	"errors"
)

// ErrNotFound reports a call to a tool the runtime does not offer.
var ErrNotFound = errors.New("tool not found")

// Tool is anything that can describe itself to the model.
type Tool interface {
	// Declaration returns the metadata describing the tool.
	Declaration() *Declaration
}

// CallableTool defines the interface for tools that support calling operations.
type CallableTool interface {
	// Call calls the tool with the provided context and arguments.
	// Returns the result of execution or an error if the operation fails.
	Call(ctx context.Context, jsonArgs []byte) (any, error)

	Tool
}

// Runtime is the collaborator boundary the orchestration loop executes tool
// calls against. A runtime may be a local registry of in-process tools or a
// connection to an external tool server.
type Runtime interface {
	// ListTools returns the declarations of every tool the runtime offers.
	ListTools(ctx context.Context) ([]*Declaration, error)

	// CallTool executes the named tool with JSON-encoded arguments.
	CallTool(ctx context.Context, name string, jsonArgs []byte) (any, error)
}

// Declaration describes the metadata of a tool, such as its name, description,
// and expected arguments.
type Declaration struct {
	// Name is the unique identifier of the tool.
	Name string `json:"name"`

	// Description explains the tool's purpose and functionality.
	Description string `json:"description"`

	// InputSchema defines the expected input for the tool in JSON schema format.
	InputSchema *Schema `json:"inputSchema"`

	// OutputSchema defines the expected output for the tool in JSON schema format.
	OutputSchema *Schema `json:"outputSchema,omitempty"`

	// Tags carry free-form labels (e.g. "dice", "lookup") a host application
	// can use to filter which tools a session exposes.
	Tags []string `json:"tags,omitempty"`
}

// Schema represents the structure of JSON Schema used for defining arguments
// and responses. It follows the JSON Schema standard, supporting various
// types, properties, and validation rules.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number").
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in
	// Properties are allowed.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
}
