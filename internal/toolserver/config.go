// internal/toolserver/config.go
package toolserver

// Config holds the configuration for the tool server.
type Config struct {
	Name         string // Implementation name advertised during initialize
	Version      string // Implementation version
	Addr         string // Listen address for HTTP mode (e.g., ":8090")
	EndpointPath string // Path for the MCP endpoint in HTTP mode
}

// DefaultConfig creates a basic default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:         "mcp-toolchat-tools",
		Version:      "0.1.0",
		Addr:         ":8090",
		EndpointPath: "/mcp",
	}
}
