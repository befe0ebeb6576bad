//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is an in-process Runtime backed by a name-indexed set of callable
// tools. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]CallableTool
}

// NewRegistry creates a registry holding the given tools. Later tools shadow
// earlier ones with the same name.
func NewRegistry(tools ...CallableTool) *Registry {
	r := &Registry{tools: make(map[string]CallableTool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tool under its declared name.
func (r *Registry) Register(t CallableTool) {
	decl := t.Declaration()
	if decl == nil || decl.Name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[decl.Name] = t
}

// Lookup returns the tool registered under name, if any.
func (r *Registry) Lookup(name string) (CallableTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// ListTools implements the Runtime interface. Declarations come back in
// name order so session payloads are deterministic.
func (r *Registry) ListTools(ctx context.Context) ([]*Declaration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]*Declaration, 0, len(r.tools))
	for _, t := range r.tools {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls, nil
}

// CallTool implements the Runtime interface.
func (r *Registry) CallTool(ctx context.Context, name string, jsonArgs []byte) (any, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t.Call(ctx, jsonArgs)
}
