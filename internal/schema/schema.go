//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

// Package schema derives JSON schemas from Go types by reflection.
package schema

import (
	"reflect"
	"strings"

	"github.com/sommda/gamemaster-client/tool"
)

// Generate generates a basic JSON schema from a reflect.Type.
func Generate(t reflect.Type) *tool.Schema {
	schema := &tool.Schema{Type: "object"}

	switch t.Kind() {
	case reflect.Struct:
		properties := map[string]*tool.Schema{}
		required := make([]string, 0)

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}

			fieldName := field.Name
			isOmitEmpty := false

			if jsonTag != "" {
				if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
					fieldName = jsonTag[:commaIdx]
					isOmitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
				} else {
					fieldName = jsonTag
				}
			}

			fieldSchema := generateField(field.Type)
			if desc := field.Tag.Get("description"); desc != "" {
				fieldSchema.Description = desc
			}
			properties[fieldName] = fieldSchema

			// Required when not a pointer and not omitempty.
			if field.Type.Kind() != reflect.Ptr && !isOmitEmpty {
				required = append(required, fieldName)
			}
		}

		schema.Properties = properties
		if len(required) > 0 {
			schema.Required = required
		}

	case reflect.Ptr:
		elemSchema := generateField(t.Elem())
		elemSchema.Type = elemSchema.Type + ",null"
		return elemSchema

	default:
		return generateField(t)
	}

	return schema
}

// generateField generates schema for a specific field type.
func generateField(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &tool.Schema{Type: "integer"}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{
			Type:  "array",
			Items: generateField(t.Elem()),
		}
	case reflect.Map:
		return &tool.Schema{
			Type:                 "object",
			AdditionalProperties: generateField(t.Elem()),
		}
	case reflect.Ptr:
		elemSchema := generateField(t.Elem())
		// Pointers are nullable.
		elemSchema.Type = elemSchema.Type + ",null"
		return elemSchema
	case reflect.Struct:
		nestedSchema := &tool.Schema{
			Type:       "object",
			Properties: make(map[string]*tool.Schema),
		}

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}

			fieldName := field.Name
			if jsonTag != "" {
				if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
					fieldName = jsonTag[:commaIdx]
				} else {
					fieldName = jsonTag
				}
			}

			nestedSchema.Properties[fieldName] = generateField(field.Type)
		}

		return nestedSchema
	default:
		return &tool.Schema{Type: "object"}
	}
}
