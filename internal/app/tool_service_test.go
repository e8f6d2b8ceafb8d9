package app

import (
	"context"
	"errors"
	"testing"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/kathir-ks/mcp-toolchat/internal/tools/builtin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcTool struct {
	def models.ToolDefinition
	fn  func(map[string]any) (models.ToolInvocationResult, error)
}

func (f *funcTool) GetDefinition() models.ToolDefinition { return f.def }

func (f *funcTool) Execute(_ context.Context, params map[string]any) (models.ToolInvocationResult, error) {
	return f.fn(params)
}

func newService(t *testing.T, extra ...tools.Executor) ToolService {
	t.Helper()
	registry := tools.NewMemoryRegistry()
	require.NoError(t, registry.Register(context.Background(), &builtin.AddTool{}))
	for _, e := range extra {
		require.NoError(t, registry.Register(context.Background(), e))
	}
	return NewToolService(ToolServiceDeps{Registry: registry})
}

func TestInvokeTool_Add(t *testing.T) {
	svc := newService(t)
	res := svc.InvokeTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "add",
		Arguments: map[string]any{"a": 2.0, "b": 2.0},
	})
	assert.False(t, res.IsError)
	assert.Equal(t, "Result is 4", res.Text())
}

func TestInvokeTool_UnknownTool(t *testing.T) {
	res := newService(t).InvokeTool(context.Background(), models.ToolInvocationRequest{ToolName: "multiply"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Unknown tool: multiply", res.Text())
}

func TestInvokeTool_InvalidArguments(t *testing.T) {
	svc := newService(t)

	missing := svc.InvokeTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "add",
		Arguments: map[string]any{"a": 1.0},
	})
	assert.True(t, missing.IsError)
	assert.Contains(t, missing.Text(), "Invalid arguments for add: ")

	wrongKind := svc.InvokeTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "add",
		Arguments: map[string]any{"a": "one", "b": 2.0},
	})
	assert.True(t, wrongKind.IsError)
	assert.Contains(t, wrongKind.Text(), "Invalid arguments for add: ")
}

func TestInvokeTool_HandlerErrorBecomesContent(t *testing.T) {
	failing := &funcTool{
		def: models.ToolDefinition{Name: "fail", Description: "always fails"},
		fn: func(map[string]any) (models.ToolInvocationResult, error) {
			return models.ToolInvocationResult{}, errors.New("boom")
		},
	}
	res := newService(t, failing).InvokeTool(context.Background(), models.ToolInvocationRequest{ToolName: "fail"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error executing fail: boom", res.Text())
}

func TestInvokeTool_PanicIsRecovered(t *testing.T) {
	panicking := &funcTool{
		def: models.ToolDefinition{Name: "explode", Description: "panics"},
		fn: func(map[string]any) (models.ToolInvocationResult, error) {
			panic("kaboom")
		},
	}
	svc := newService(t, panicking)

	var res models.ToolInvocationResult
	require.NotPanics(t, func() {
		res = svc.InvokeTool(context.Background(), models.ToolInvocationRequest{ToolName: "explode"})
	})
	assert.True(t, res.IsError)
	assert.Equal(t, "Error executing explode: kaboom", res.Text())
}

func TestInvokeTool_NilArgumentsReachHandlerAsEmptyMap(t *testing.T) {
	var got map[string]any
	probe := &funcTool{
		def: models.ToolDefinition{Name: "probe", Description: "records params"},
		fn: func(p map[string]any) (models.ToolInvocationResult, error) {
			got = p
			return models.TextResult("ok"), nil
		},
	}
	res := newService(t, probe).InvokeTool(context.Background(), models.ToolInvocationRequest{ToolName: "probe"})
	assert.False(t, res.IsError)
	assert.NotNil(t, got)
}

func TestListTools(t *testing.T) {
	defs := newService(t).ListTools(context.Background())
	require.Len(t, defs, 1)
	assert.Equal(t, "add", defs[0].Name)
}

func TestNewToolService_RequiresRegistry(t *testing.T) {
	assert.Panics(t, func() { NewToolService(ToolServiceDeps{}) })
}
