// internal/app/tool_service.go
package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	log "github.com/sirupsen/logrus"
)

type toolService struct {
	registry tools.Registry
}

// NewToolService creates a new ToolService.
func NewToolService(deps ToolServiceDeps) ToolService {
	if deps.Registry == nil {
		panic("ToolService requires a non-nil Registry")
	}
	return &toolService{registry: deps.Registry}
}

func (s *toolService) ListTools(ctx context.Context) []models.ToolDefinition {
	return s.registry.List(ctx)
}

func (s *toolService) InvokeTool(ctx context.Context, req models.ToolInvocationRequest) (result models.ToolInvocationResult) {
	logger := log.WithField("tool", req.ToolName)

	executor, err := s.registry.Get(ctx, req.ToolName)
	if err != nil {
		logger.Warn("Invocation of unknown tool")
		return models.ErrorResult("Unknown tool: " + req.ToolName)
	}

	def := executor.GetDefinition()
	if err := models.ValidateArguments(def, req.Arguments); err != nil {
		logger.Warnf("Rejected arguments: %v", err)
		return models.ErrorResult(fmt.Sprintf("Invalid arguments for %s: %v", req.ToolName, err))
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Tool panicked: %v\n%s", r, debug.Stack())
			result = models.ErrorResult(fmt.Sprintf("Error executing %s: %v", req.ToolName, r))
		}
	}()

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}
	res, err := executor.Execute(ctx, args)
	if err != nil {
		logger.Errorf("Tool execution failed: %v", err)
		return models.ErrorResult(fmt.Sprintf("Error executing %s: %v", req.ToolName, err))
	}
	if res.Content == nil {
		res.Content = []models.ContentBlock{}
	}
	logger.WithField("is_error", res.IsError).Debug("Tool executed")
	return res
}
