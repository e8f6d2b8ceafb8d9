// internal/app/interfaces.go
package app

import (
	"context"

	"github.com/kathir-ks/mcp-toolchat/internal/models" // Internal data models
	"github.com/kathir-ks/mcp-toolchat/internal/tools"  // Tool registry
)

// ToolService is the boundary between the protocol binding and the tool
// handlers. It never reports failures as Go errors: every outcome of an
// invocation, including unknown names and handler faults, is content.
type ToolService interface {
	// ListTools returns a snapshot of every registered definition, sorted by name.
	ListTools(ctx context.Context) []models.ToolDefinition
	// InvokeTool runs the named tool and returns its result.
	InvokeTool(ctx context.Context, req models.ToolInvocationRequest) models.ToolInvocationResult
}

// --- Service Dependencies ---

type ToolServiceDeps struct {
	Registry tools.Registry
}
