// internal/chat/history.go
package chat

import (
	"sync"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
)

// History is the append-only conversation record of one session.
type History struct {
	mu       sync.RWMutex
	messages []models.Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds a message at the end.
func (h *History) Append(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// Len returns the number of messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Snapshot returns a copy of the messages, oldest first. Later appends never
// change a snapshot already taken.
func (h *History) Snapshot() []models.Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]models.Message, len(h.messages))
	copy(out, h.messages)
	return out
}
