// internal/toolclient/transport.go
package toolclient

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const stdioSchemePrefix = "stdio://"

func buildTransport(ctx context.Context, spec string) (mcp.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("transport spec is empty")
	}

	lowered := strings.ToLower(spec)
	switch {
	case strings.HasPrefix(lowered, stdioSchemePrefix):
		return buildStdioTransport(ctx, spec[len(stdioSchemePrefix):])
	case strings.HasPrefix(lowered, "http://"), strings.HasPrefix(lowered, "https://"):
		return buildHTTPTransport(spec)
	}
	return buildStdioTransport(ctx, spec)
}

func buildStdioTransport(ctx context.Context, cmdSpec string) (mcp.Transport, error) {
	parts := strings.Fields(cmdSpec)
	if len(parts) == 0 {
		return nil, fmt.Errorf("stdio command is empty")
	}
	// #nosec G204 -- the command comes from local configuration
	command := exec.CommandContext(ctx, parts[0], parts[1:]...)
	command.Stderr = os.Stderr
	return &mcp.CommandTransport{Command: command}, nil
}

func buildHTTPTransport(endpoint string) (mcp.Transport, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP endpoint: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid HTTP endpoint: missing host")
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	return &mcp.StreamableClientTransport{Endpoint: parsed.String()}, nil
}
