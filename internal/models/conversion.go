// internal/models/conversion.go
package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SchemaTypeObject is the root type of every tool input schema.
const SchemaTypeObject = "object"

// InputSchema renders the definition as the protocol's structural schema:
// {type: "object", properties: {...}, required: [...]}.
func (d ToolDefinition) InputSchema() map[string]any {
	properties := make(map[string]any, len(d.Params))
	for _, p := range d.Params {
		prop := map[string]any{"type": string(p.Kind)}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
	}
	schema := map[string]any{
		"type":       SchemaTypeObject,
		"properties": properties,
	}
	if required := d.RequiredParams(); len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolDefinitionFromSchema rebuilds a definition from a protocol tool
// description. The schema may be a decoded JSON object, raw JSON bytes, or
// anything that marshals to a JSON object. Parameters are ordered by name.
func ToolDefinitionFromSchema(name, description string, schema any) (ToolDefinition, error) {
	def := ToolDefinition{Name: name, Description: description}
	if name == "" {
		return def, fmt.Errorf("tool definition requires a name")
	}

	raw, err := schemaAsMap(schema)
	if err != nil {
		return def, fmt.Errorf("tool %s: %w", name, err)
	}
	if raw == nil {
		return def, nil // No parameters advertised
	}
	if t, ok := raw["type"]; ok && t != SchemaTypeObject {
		return def, fmt.Errorf("tool %s: input schema type must be %q, got %v", name, SchemaTypeObject, t)
	}

	required := make(map[string]bool)
	switch req := raw["required"].(type) {
	case []string:
		for _, r := range req {
			required[r] = true
		}
	case []any:
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	case nil:
	default:
		return def, fmt.Errorf("tool %s: 'required' must be a list of names", name)
	}

	props, _ := raw["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for propName := range props {
		names = append(names, propName)
	}
	sort.Strings(names)

	for _, propName := range names {
		prop, ok := props[propName].(map[string]any)
		if !ok {
			return def, fmt.Errorf("tool %s: property %q is not an object", name, propName)
		}
		kindStr, _ := prop["type"].(string)
		kind := ParamKind(kindStr)
		if !kind.Valid() {
			return def, fmt.Errorf("tool %s: property %q has unsupported type %q", name, propName, kindStr)
		}
		desc, _ := prop["description"].(string)
		def.Params = append(def.Params, ParamSpec{
			Name:        propName,
			Kind:        kind,
			Description: desc,
			Required:    required[propName],
		})
	}
	return def, nil
}

// schemaAsMap normalizes the accepted schema representations into a map.
func schemaAsMap(schema any) (map[string]any, error) {
	switch s := schema.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return s, nil
	case json.RawMessage:
		return unmarshalSchema(s)
	case []byte:
		return unmarshalSchema(s)
	default:
		bytes, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("cannot marshal input schema: %w", err)
		}
		return unmarshalSchema(bytes)
	}
}

func unmarshalSchema(bytes []byte) (map[string]any, error) {
	if len(bytes) == 0 || string(bytes) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(bytes, &m); err != nil {
		return nil, fmt.Errorf("invalid input schema: %w", err)
	}
	return m, nil
}
