//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Label string `json:"label"`
}

type sample struct {
	Name     string         `json:"name" description:"The display name."`
	Count    int            `json:"count,omitempty"`
	Ratio    float64        `json:"ratio"`
	Active   bool           `json:"active"`
	Tags     []string       `json:"tags"`
	Extra    map[string]int `json:"extra"`
	Child    nested         `json:"child"`
	Optional *string        `json:"optional"`
	Hidden   string         `json:"-"`
	ignored  string
}

func TestGenerateStructSchema(t *testing.T) {
	s := Generate(reflect.TypeOf(sample{}))

	require.Equal(t, "object", s.Type)
	assert.Equal(t, "string", s.Properties["name"].Type)
	assert.Equal(t, "The display name.", s.Properties["name"].Description)
	assert.Equal(t, "integer", s.Properties["count"].Type)
	assert.Equal(t, "number", s.Properties["ratio"].Type)
	assert.Equal(t, "boolean", s.Properties["active"].Type)

	require.NotNil(t, s.Properties["tags"].Items)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)

	assert.Equal(t, "object", s.Properties["extra"].Type)

	require.Contains(t, s.Properties["child"].Properties, "label")

	assert.Equal(t, "string,null", s.Properties["optional"].Type)

	assert.NotContains(t, s.Properties, "Hidden")
	assert.NotContains(t, s.Properties, "-")
	assert.NotContains(t, s.Properties, "ignored")
}

func TestGenerateRequiredFields(t *testing.T) {
	s := Generate(reflect.TypeOf(sample{}))

	assert.Contains(t, s.Required, "name")
	assert.Contains(t, s.Required, "ratio")
	// omitempty and pointers are optional.
	assert.NotContains(t, s.Required, "count")
	assert.NotContains(t, s.Required, "optional")
}

func TestGenerateScalar(t *testing.T) {
	assert.Equal(t, "string", Generate(reflect.TypeOf("")).Type)
	assert.Equal(t, "integer", Generate(reflect.TypeOf(0)).Type)
}
