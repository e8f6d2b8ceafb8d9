// internal/models/validation.go
package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValidateArguments checks args structurally against the definition:
// required parameters must be present and every declared parameter that is
// present must match its primitive kind. Undeclared arguments pass through.
func ValidateArguments(def ToolDefinition, args map[string]any) error {
	for _, p := range def.Params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return fmt.Errorf("missing required parameter '%s'", p.Name)
			}
			continue
		}
		if !kindMatches(p.Kind, v) {
			return fmt.Errorf("parameter '%s' must be of type %s, got %T", p.Name, p.Kind, v)
		}
	}
	return nil
}

func kindMatches(kind ParamKind, v any) bool {
	switch kind {
	case ParamString:
		_, ok := v.(string)
		return ok
	case ParamBoolean:
		_, ok := v.(bool)
		return ok
	case ParamNumber:
		_, ok := asFloat(v)
		return ok
	case ParamInteger:
		f, ok := asFloat(v)
		return ok && f == math.Trunc(f)
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
