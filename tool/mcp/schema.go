//
// Copyright (C) 2026 The gamemaster-client Authors.  All rights reserved.
//
// gamemaster-client is licensed under the Apache License Version 2.0.
//
//

package mcp

import (
	"encoding/json"
	"strings"

	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/sommda/gamemaster-client/tool"
)

// convertSchema converts an MCP JSON schema to the declaration Schema format.
func convertSchema(mcpSchema any) *tool.Schema {
	fallback := &tool.Schema{Type: "object"}
	if mcpSchema == nil {
		return fallback
	}

	schemaBytes, err := json.Marshal(mcpSchema)
	if err != nil {
		return fallback
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
		return fallback
	}

	schema := &tool.Schema{}
	if typeVal, ok := schemaMap["type"].(string); ok {
		schema.Type = typeVal
	}
	if descVal, ok := schemaMap["description"].(string); ok {
		schema.Description = descVal
	}
	if propsVal, ok := schemaMap["properties"].(map[string]any); ok {
		schema.Properties = convertProperties(propsVal)
	}
	if reqVal, ok := schemaMap["required"].([]any); ok {
		required := make([]string, 0, len(reqVal))
		for _, req := range reqVal {
			if reqStr, ok := req.(string); ok {
				required = append(required, reqStr)
			}
		}
		schema.Required = required
	}
	return schema
}

// convertProperties converts property definitions to the Schema map form.
func convertProperties(props map[string]any) map[string]*tool.Schema {
	if props == nil {
		return nil
	}

	result := make(map[string]*tool.Schema)
	for name, prop := range props {
		propMap, ok := prop.(map[string]any)
		if !ok {
			continue
		}
		propSchema := &tool.Schema{}
		if typeVal, ok := propMap["type"].(string); ok {
			propSchema.Type = typeVal
		}
		if descVal, ok := propMap["description"].(string); ok {
			propSchema.Description = descVal
		}
		result[name] = propSchema
	}
	return result
}

// flattenContent joins the text of the response content blocks. Non-text
// blocks are skipped.
func flattenContent(contents []mcp.Content) string {
	var parts []string
	for _, content := range contents {
		if textContent, ok := content.(mcp.TextContent); ok {
			parts = append(parts, textContent.Text)
		}
	}
	return strings.Join(parts, "\n")
}
