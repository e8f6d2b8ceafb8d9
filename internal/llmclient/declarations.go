// internal/llmclient/declarations.go
package llmclient

import (
	"github.com/kathir-ks/mcp-toolchat/internal/models"
)

// Schema is a provider-neutral JSON-schema subset for function parameters.
type Schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]Schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

// FunctionDeclaration advertises one callable tool to the model.
type FunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  Schema `json:"parameters"`
}

// ToFunctionDeclarations translates discovered tools into declarations.
// Called once per session; the result is reused for every model query.
func ToFunctionDeclarations(defs []models.ToolDefinition) []FunctionDeclaration {
	decls := make([]FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		params := Schema{
			Type:       models.SchemaTypeObject,
			Properties: make(map[string]Schema, len(def.Params)),
			Required:   def.RequiredParams(),
		}
		for _, p := range def.Params {
			params.Properties[p.Name] = Schema{Type: string(p.Kind), Description: p.Description}
		}
		decls = append(decls, FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  params,
		})
	}
	return decls
}
