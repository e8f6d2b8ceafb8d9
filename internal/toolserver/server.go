// internal/toolserver/server.go
package toolserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kathir-ks/mcp-toolchat/internal/app"
	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// Server exposes the tool service over the Model Context Protocol.
type Server struct {
	config     *Config
	service    app.ToolService
	mcpServer  *mcp.Server
	httpServer *http.Server
}

// NewServer creates a tool server and registers every tool the service lists.
func NewServer(ctx context.Context, cfg *Config, svc app.ToolService) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("tool server configuration cannot be nil")
	}
	if svc == nil {
		return nil, errors.New("tool server requires a tool service")
	}

	s := &Server{
		config:    cfg,
		service:   svc,
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
	}
	for _, def := range svc.ListTools(ctx) {
		s.mcpServer.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		}, s.handlerFor(def.Name))
		log.WithField("tool", def.Name).Debug("Registered tool with MCP server")
	}
	return s, nil
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// handlerFor adapts a tools/call request to ToolService.InvokeTool. Every
// outcome is returned as a result so no tool failure becomes a protocol fault.
func (s *Server) handlerFor(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if raw := req.Params.Arguments; len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &args); err != nil {
				log.WithField("tool", name).Warnf("Undecodable arguments: %v", err)
				return toCallToolResult(models.ErrorResult(fmt.Sprintf("Invalid arguments for %s: %v", name, err))), nil
			}
		}

		res := s.service.InvokeTool(ctx, models.ToolInvocationRequest{ToolName: name, Arguments: args})
		return toCallToolResult(res), nil
	}
}

func toCallToolResult(res models.ToolInvocationResult) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(res.Content))
	for _, block := range res.Content {
		content = append(content, &mcp.TextContent{Text: block.Text})
	}
	return &mcp.CallToolResult{Content: content, IsError: res.IsError}
}

// Serve runs the server over stdin/stdout until the peer disconnects or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Infof("Serving %s v%s over stdio", s.config.Name, s.config.Version)
	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	log.Info("Stdio session ended.")
	return nil
}

// Start runs the HTTP server.
// It blocks until the server is shut down. Call Stop() for graceful shutdown.
func (s *Server) Start() error {
	if s.httpServer != nil {
		return errors.New("tool server already started")
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.NewRouter(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Infof("Starting %s v%s on %s%s", s.config.Name, s.config.Version, s.config.Addr, s.config.EndpointPath)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("Tool server HTTP error: %v", err)
		s.httpServer = nil
		return err
	}

	log.Info("Tool server stopped.")
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		log.Warn("Tool server is not running, cannot stop.")
		return nil
	}

	log.Info("Shutting down tool server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("Tool server graceful shutdown failed: %v", err)
		if closeErr := s.httpServer.Close(); closeErr != nil {
			log.Errorf("Tool server close failed: %v", closeErr)
		}
		return err
	}

	s.httpServer = nil
	log.Info("Tool server shutdown complete.")
	return nil
}
