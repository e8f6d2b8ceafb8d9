// internal/tools/builtin/register.go
package builtin

import (
	"context"
	"fmt"

	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/kathir-ks/mcp-toolchat/internal/twitter"
)

// RegisterAll registers add, createTwitterPost and getTwitterPosts.
func RegisterAll(ctx context.Context, registry tools.Registry, client twitter.Client) error {
	executors := []tools.Executor{
		&AddTool{},
		NewCreatePostTool(client),
		NewGetPostsTool(client),
	}
	for _, e := range executors {
		if err := registry.Register(ctx, e); err != nil {
			return fmt.Errorf("failed to register %s: %w", e.GetDefinition().Name, err)
		}
	}
	return nil
}
