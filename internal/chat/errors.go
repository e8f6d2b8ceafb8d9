// internal/chat/errors.go
package chat

import (
	"errors"
	"fmt"

	"github.com/kathir-ks/mcp-toolchat/internal/toolclient"
)

// ErrChannelLost ends the session: the tool server is gone.
var ErrChannelLost = toolclient.ErrChannelLost

// ErrToolChainLimit is reported when a turn requests more tool calls than allowed.
var ErrToolChainLimit = errors.New("tool call chain limit reached")

// FaultKind classifies a failed turn.
type FaultKind string

const (
	FaultModel      FaultKind = "model"
	FaultTool       FaultKind = "tool"
	FaultChainLimit FaultKind = "chain_limit"
)

// TurnError is a non-fatal failure of one conversation turn. The session
// keeps its history and returns to the prompt.
type TurnError struct {
	Kind FaultKind
	Err  error
}

func (e *TurnError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// Kind extracts the fault kind from err, or "" when err is not a TurnError.
func Kind(err error) FaultKind {
	var te *TurnError
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}
