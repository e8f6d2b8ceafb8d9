package toolclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kathir-ks/mcp-toolchat/internal/app"
	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/kathir-ks/mcp-toolchat/internal/tools/builtin"
	"github.com/kathir-ks/mcp-toolchat/internal/toolserver"
	"github.com/kathir-ks/mcp-toolchat/internal/twitter"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectInMemory wires a client to a real tool server over in-memory
// transports. The returned func ends the server side of the session.
func connectInMemory(t *testing.T) (*Client, func()) {
	t.Helper()
	ctx := context.Background()

	registry := tools.NewMemoryRegistry()
	require.NoError(t, builtin.RegisterAll(ctx, registry, twitter.NewHTTPClient(twitter.Config{})))
	srv, err := toolserver.NewServer(ctx, toolserver.DefaultConfig(), app.NewToolService(app.ToolServiceDeps{Registry: registry}))
	require.NoError(t, err)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := New("toolclient-test", "test")
	require.NoError(t, client.ConnectTransport(ctx, clientTransport))
	t.Cleanup(func() {
		_ = client.Close()
		_ = serverSession.Close()
	})
	return client, func() { _ = serverSession.Close() }
}

func TestListTools(t *testing.T) {
	client, _ := connectInMemory(t)

	defs, err := client.ListTools(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"add", "createTwitterPost", "getTwitterPosts"}, names)

	add, _ := defs[0].Param("a")
	assert.Equal(t, models.ParamNumber, add.Kind)
	assert.True(t, add.Required)
}

func TestCallTool_Add(t *testing.T) {
	client, _ := connectInMemory(t)
	_, err := client.ListTools(context.Background())
	require.NoError(t, err)

	res, err := client.CallTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "add",
		Arguments: map[string]any{"a": 2, "b": 2},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "Result is 4", res.Text())
}

func TestCallTool_ToolFailureIsContent(t *testing.T) {
	client, _ := connectInMemory(t)
	_, err := client.ListTools(context.Background())
	require.NoError(t, err)

	res, err := client.CallTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "createTwitterPost",
		Arguments: map[string]any{"status": "hello"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "Error posting tweet: ")
}

func TestCallTool_InvalidArgumentsIsContent(t *testing.T) {
	client, _ := connectInMemory(t)
	_, err := client.ListTools(context.Background())
	require.NoError(t, err)

	res, err := client.CallTool(context.Background(), models.ToolInvocationRequest{
		ToolName:  "add",
		Arguments: map[string]any{"a": "two"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Text(), "Invalid arguments for add")
}

func TestCallTool_UnknownNameNeverLeavesClient(t *testing.T) {
	client, _ := connectInMemory(t)
	_, err := client.ListTools(context.Background())
	require.NoError(t, err)

	res, err := client.CallTool(context.Background(), models.ToolInvocationRequest{ToolName: "multiply"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "Unknown tool: multiply", res.Text())
}

func TestLost_ClosedWhenServerGoesAway(t *testing.T) {
	client, kill := connectInMemory(t)
	_, err := client.ListTools(context.Background())
	require.NoError(t, err)

	kill()

	select {
	case <-client.Lost():
	case <-time.After(5 * time.Second):
		t.Fatal("Lost() was not closed after the server session ended")
	}

	_, err = client.CallTool(context.Background(), models.ToolInvocationRequest{ToolName: "add"})
	assert.True(t, errors.Is(err, ErrChannelLost))
	_, err = client.ListTools(context.Background())
	assert.True(t, errors.Is(err, ErrChannelLost))
}

func TestNotConnected(t *testing.T) {
	client := New("x", "y")
	_, err := client.ListTools(context.Background())
	assert.Error(t, err)
	_, err = client.CallTool(context.Background(), models.ToolInvocationRequest{ToolName: "add"})
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}
