// internal/llmclient/interface.go
package llmclient

import (
	"context"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
)

// GenerationParams holds the parameters for an LLM generation request.
type GenerationParams struct {
	Model        string                `json:"model,omitempty"` // Specific model identifier (e.g., "gemini-2.0-flash")
	SystemPrompt *string               `json:"system_prompt,omitempty"`
	Messages     []models.Message      `json:"messages"` // Full conversation history, oldest first
	Tools        []FunctionDeclaration `json:"tools,omitempty"`
	MaxTokens    *int                  `json:"max_tokens,omitempty"`
	Temperature  *float64              `json:"temperature,omitempty"`
}

// GenerationResponse holds the result of a single LLM call. Exactly one of
// Text or FunctionCall is meaningful: when the model asks for a tool,
// FunctionCall is set and Text is ignored.
type GenerationResponse struct {
	Text         string               `json:"text"`
	FunctionCall *models.FunctionCall `json:"function_call,omitempty"`
	ModelUsed    string               `json:"model_used"`      // Actual model that responded
	FinishReason string               `json:"finish_reason"`   // "stop", "length", "content_filter" or "other"
	Usage        map[string]int       `json:"usage,omitempty"` // e.g., {"prompt_tokens": 10, "completion_tokens": 50}
}

// Client defines the interface for interacting with an LLM provider.
type Client interface {
	// Generate performs a single generation request over the given history.
	Generate(ctx context.Context, params GenerationParams) (*GenerationResponse, error)

	// ProviderName returns the name of the LLM provider (e.g., "google").
	ProviderName() string
}
