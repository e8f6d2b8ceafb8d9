package toolclient

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransport_Stdio(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []string
	}{
		{name: "BareCommand", spec: "toolserver", want: []string{"toolserver"}},
		{name: "ExplicitPrefix", spec: "stdio://./toolserver --log-level debug", want: []string{"./toolserver", "--log-level", "debug"}},
		{name: "UppercasePrefix", spec: "STDIO://go run ./cmd/toolserver", want: []string{"go", "run", "./cmd/toolserver"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := buildTransport(context.Background(), tt.spec)
			require.NoError(t, err)
			cmd, ok := tr.(*mcp.CommandTransport)
			require.True(t, ok, "transport is %T", tr)
			assert.Equal(t, tt.want, cmd.Command.Args)
		})
	}
}

func TestBuildTransport_HTTP(t *testing.T) {
	tr, err := buildTransport(context.Background(), "HTTP://localhost:8090/mcp")
	require.NoError(t, err)
	httpTr, ok := tr.(*mcp.StreamableClientTransport)
	require.True(t, ok, "transport is %T", tr)
	assert.Equal(t, "http://localhost:8090/mcp", httpTr.Endpoint)
}

func TestBuildTransport_Invalid(t *testing.T) {
	for _, spec := range []string{"", "   ", "stdio://", "http://"} {
		_, err := buildTransport(context.Background(), spec)
		assert.Error(t, err, "spec %q", spec)
	}
}
