//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTool struct {
	name   string
	result any
}

func (s *staticTool) Declaration() *Declaration {
	return &Declaration{Name: s.name, InputSchema: &Schema{Type: "object"}}
}

func (s *staticTool) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	return s.result, nil
}

func TestRegistryListsInNameOrder(t *testing.T) {
	r := NewRegistry(
		&staticTool{name: "zeta"},
		&staticTool{name: "alpha"},
		&staticTool{name: "mid"},
	)

	decls, err := r.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, decls, 3)
	assert.Equal(t, "alpha", decls[0].Name)
	assert.Equal(t, "mid", decls[1].Name)
	assert.Equal(t, "zeta", decls[2].Name)
}

func TestRegistryCallTool(t *testing.T) {
	r := NewRegistry(&staticTool{name: "greet", result: "hello"})

	out, err := r.CallTool(context.Background(), "greet", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.CallTool(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryLaterRegistrationShadows(t *testing.T) {
	r := NewRegistry(&staticTool{name: "greet", result: "first"})
	r.Register(&staticTool{name: "greet", result: "second"})

	out, err := r.CallTool(context.Background(), "greet", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}

func TestRegistryIgnoresNamelessTool(t *testing.T) {
	r := NewRegistry(&staticTool{name: ""})

	decls, err := r.ListTools(context.Background())
	require.NoError(t, err)
	assert.Empty(t, decls)
}
