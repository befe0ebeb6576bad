//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package function wraps plain Go functions as callable tools.
package function

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/sommda/gamemaster-client/internal/schema"
	"github.com/sommda/gamemaster-client/tool"
)

// FunctionTool implements the CallableTool interface for executing functions
// with arguments. It provides a generic way to wrap any function as a tool
// that can be called with JSON arguments and returns results.
type FunctionTool[I, O any] struct {
	name         string
	description  string
	tags         []string
	inputSchema  *tool.Schema
	outputSchema *tool.Schema
	fn           func(context.Context, I) (O, error)
}

// Option is a function that configures a FunctionTool.
type Option func(*functionToolOptions)

// functionToolOptions holds the configuration options for FunctionTool.
type functionToolOptions struct {
	name        string
	description string
	tags        []string
	inputSchema *tool.Schema
}

// WithName sets the name of the function tool.
func WithName(name string) Option {
	return func(opts *functionToolOptions) {
		opts.name = name
	}
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(opts *functionToolOptions) {
		opts.description = description
	}
}

// WithTags sets free-form labels on the tool's declaration.
func WithTags(tags ...string) Option {
	return func(opts *functionToolOptions) {
		opts.tags = tags
	}
}

// WithInputSchema overrides the reflected input schema with a hand-written
// one. Useful when the reflected schema is too loose for the model.
func WithInputSchema(s *tool.Schema) Option {
	return func(opts *functionToolOptions) {
		opts.inputSchema = s
	}
}

// New creates a FunctionTool wrapping fn. Input and output schemas are
// derived from the type parameters by reflection unless overridden.
func New[I, O any](fn func(context.Context, I) (O, error), opts ...Option) *FunctionTool[I, O] {
	options := &functionToolOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var (
		emptyI I
		emptyO O
	)
	inputSchema := options.inputSchema
	if inputSchema == nil {
		inputSchema = schema.Generate(reflect.TypeOf(emptyI))
	}

	return &FunctionTool[I, O]{
		name:         options.name,
		description:  options.description,
		tags:         options.tags,
		fn:           fn,
		inputSchema:  inputSchema,
		outputSchema: schema.Generate(reflect.TypeOf(emptyO)),
	}
}

// Call executes the function tool with the provided JSON arguments.
// It unmarshals the given arguments into the tool's input type, then calls
// the underlying function with these arguments.
func (ft *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if len(jsonArgs) > 0 {
		if err := json.Unmarshal(jsonArgs, &input); err != nil {
			return nil, err
		}
	}
	return ft.fn(ctx, input)
}

// Declaration returns the tool's declaration information.
func (ft *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:         ft.name,
		Description:  ft.description,
		Tags:         ft.tags,
		InputSchema:  ft.inputSchema,
		OutputSchema: ft.outputSchema,
	}
}
