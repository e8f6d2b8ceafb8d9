// internal/toolclient/client.go
package toolclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// ErrChannelLost is returned once the session with the tool server has ended
// without the client asking for it.
var ErrChannelLost = errors.New("tool server channel lost")

// lostGrace is how long a failed call waits for the session watcher to
// report that the channel is gone.
const lostGrace = 200 * time.Millisecond

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Client is a tools/list + tools/call client bound to a single server session.
type Client struct {
	impl    *mcp.Client
	session *mcp.ClientSession

	mu    sync.RWMutex
	known map[string]struct{} // names from the last ListTools

	lost     chan struct{}
	lostOnce sync.Once
	closing  atomic.Bool
}

// New constructs an unconnected client.
func New(name, version string) *Client {
	return &Client{
		impl: mcp.NewClient(&mcp.Implementation{Name: name, Version: version}, nil),
		lost: make(chan struct{}),
	}
}

// Connect builds a transport from spec and opens the session. spec is either
// "stdio://cmd args", a bare command line, or an http(s):// URL.
func (c *Client) Connect(ctx context.Context, spec string) error {
	transport, err := transportBuilder(ctx, spec)
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}
	return c.ConnectTransport(ctx, transport)
}

// ConnectTransport opens the session over an already built transport.
func (c *Client) ConnectTransport(ctx context.Context, transport mcp.Transport) error {
	if c.session != nil {
		return errors.New("tool client already connected")
	}
	session, err := c.impl.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connect to tool server: %w", err)
	}
	c.session = session
	go c.watch(session)
	log.Debug("Connected to tool server")
	return nil
}

func (c *Client) watch(session *mcp.ClientSession) {
	err := session.Wait()
	if !c.closing.Load() {
		log.WithError(err).Error("Tool server session ended unexpectedly")
	}
	c.lostOnce.Do(func() { close(c.lost) })
}

// Lost is closed when the session ends.
func (c *Client) Lost() <-chan struct{} {
	return c.lost
}

func (c *Client) isLost() bool {
	select {
	case <-c.lost:
		return true
	default:
		return false
	}
}

// ListTools fetches the server's tools. Tools whose schema cannot be
// represented are skipped with a warning. The names returned become the set
// CallTool accepts.
func (c *Client) ListTools(ctx context.Context) ([]models.ToolDefinition, error) {
	if c.session == nil {
		return nil, errors.New("tool client not connected")
	}
	if c.isLost() {
		return nil, ErrChannelLost
	}

	var defs []models.ToolDefinition
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			if c.isLost() {
				return nil, ErrChannelLost
			}
			return nil, fmt.Errorf("tools/list: %w", err)
		}
		def, err := models.ToolDefinitionFromSchema(tool.Name, tool.Description, tool.InputSchema)
		if err != nil {
			log.WithField("tool", tool.Name).Warnf("Skipping tool with unsupported schema: %v", err)
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	known := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		known[def.Name] = struct{}{}
	}
	c.mu.Lock()
	c.known = known
	c.mu.Unlock()

	return defs, nil
}

// CallTool invokes one tool. Unknown names produce error content without a
// protocol call. A failed call after the channel is gone returns ErrChannelLost.
func (c *Client) CallTool(ctx context.Context, req models.ToolInvocationRequest) (*models.ToolInvocationResult, error) {
	if c.session == nil {
		return nil, errors.New("tool client not connected")
	}
	if c.isLost() {
		return nil, ErrChannelLost
	}

	c.mu.RLock()
	_, ok := c.known[req.ToolName]
	c.mu.RUnlock()
	if !ok {
		res := models.ErrorResult("Unknown tool: " + req.ToolName)
		return &res, nil
	}

	args := req.Arguments
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: req.ToolName, Arguments: args})
	if err != nil {
		select {
		case <-c.lost:
			return nil, fmt.Errorf("%w: %v", ErrChannelLost, err)
		case <-time.After(lostGrace):
		}
		return nil, fmt.Errorf("tools/call %s: %w", req.ToolName, err)
	}
	res := fromCallToolResult(result)
	return &res, nil
}

func fromCallToolResult(result *mcp.CallToolResult) models.ToolInvocationResult {
	res := models.ToolInvocationResult{Content: []models.ContentBlock{}}
	if result == nil {
		return res
	}
	res.IsError = result.IsError
	for _, content := range result.Content {
		text, ok := content.(*mcp.TextContent)
		if !ok {
			log.Debugf("Ignoring non-text content block %T", content)
			continue
		}
		res.Content = append(res.Content, models.ContentBlock{Type: models.ContentTypeText, Text: text.Text})
	}
	return res
}

// Close ends the session.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	c.closing.Store(true)
	err := c.session.Close()
	c.session = nil
	return err
}
