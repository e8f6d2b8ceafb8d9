// internal/tools/interface.go
package tools

import (
	"context"
	"errors"

	"github.com/kathir-ks/mcp-toolchat/internal/models" // Reference ToolDefinition
)

var (
	// ErrToolNotFound is returned by Registry.Get for unknown names.
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// Executor defines the interface for a runnable tool.
// Each specific tool (add, createTwitterPost, ...) implements this.
type Executor interface {
	// GetDefinition returns the static definition of the tool (name, description, params).
	GetDefinition() models.ToolDefinition

	// Execute runs the tool with arguments that already passed the structural
	// check against GetDefinition(). Expected failures (e.g. the external API
	// rejecting a request) are reported as error content; a returned error
	// means something unexpected happened.
	Execute(ctx context.Context, params map[string]any) (models.ToolInvocationResult, error)
}

// Registry defines the interface for managing available tools.
type Registry interface {
	// Register adds a tool executor. Names must be unique.
	Register(ctx context.Context, tool Executor) error

	// Get returns the executor for a given tool name, or ErrToolNotFound.
	Get(ctx context.Context, toolName string) (Executor, error)

	// List returns the definitions of all registered tools, sorted by name.
	List(ctx context.Context) []models.ToolDefinition
}
