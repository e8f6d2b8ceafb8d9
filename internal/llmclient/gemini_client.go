// internal/llmclient/gemini_client.go
package llmclient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/kathir-ks/mcp-toolchat/internal/models"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrMalformedResponse is returned when the model answers with no usable candidate.
var ErrMalformedResponse = errors.New("malformed model response")

type geminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client for Google Gemini models.
func NewGeminiClient(ctx context.Context, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, errors.New("Google Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Errorf("Failed to create Gemini client: %v", err)
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiClient{client: client}, nil
}

func (c *geminiClient) ProviderName() string {
	return "google"
}

// Close releases the underlying connection.
func (c *geminiClient) Close() error {
	return c.client.Close()
}

func (c *geminiClient) Generate(ctx context.Context, params GenerationParams) (*GenerationResponse, error) {
	if params.Model == "" {
		return nil, errors.New("model name is required for Gemini generate")
	}
	log.WithFields(log.Fields{"model": params.Model, "messages": len(params.Messages)}).Debug("Calling Gemini")

	contents, err := toGenaiContents(params.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to map messages for Gemini: %w", err)
	}

	model := c.client.GenerativeModel(params.Model)
	applyGenerationSettings(model, params)
	model.Tools = toGenaiTools(params.Tools)

	// The newest entry is sent as the turn; everything before it is history.
	cs := model.StartChat()
	last := contents[len(contents)-1]
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, last.Parts...)
	if err != nil {
		log.Errorf("Gemini API SendMessage failed: %v", err)
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	return mapGenaiResponse(resp, params.Model)
}

// --- Helper Functions ---

// applyGenerationSettings configures the genai model based on llmclient params.
func applyGenerationSettings(model *genai.GenerativeModel, params GenerationParams) {
	if params.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*params.MaxTokens))
	}
	if params.Temperature != nil {
		model.SetTemperature(float32(*params.Temperature))
	}
	if params.SystemPrompt != nil && *params.SystemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(*params.SystemPrompt))
	}
}

// toGenaiContents converts history into role-tagged genai contents.
func toGenaiContents(messages []models.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case models.RoleUser:
			role = "user"
		case models.RoleAssistant:
			role = "model"
		default:
			log.Warnf("Unsupported role '%s' in message for Gemini, skipping.", msg.Role)
			continue
		}

		parts := make([]genai.Part, 0, len(msg.Parts))
		for _, p := range msg.Parts {
			switch v := p.(type) {
			case models.TextPart:
				parts = append(parts, genai.Text(v.Text))
			case *models.FunctionCall:
				parts = append(parts, genai.FunctionCall{Name: v.Name, Args: v.Args})
			default:
				return nil, fmt.Errorf("unsupported part type %q", p.GetType())
			}
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	if len(contents) == 0 {
		return nil, errors.New("no valid messages found to send")
	}
	return contents, nil
}

// toGenaiTools wraps every declaration in a single genai tool.
func toGenaiTools(decls []FunctionDeclaration) []*genai.Tool {
	if len(decls) == 0 {
		return nil
	}
	fds := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{Name: d.Name, Description: d.Description}
		// Gemini rejects object schemas with no properties.
		if len(d.Parameters.Properties) > 0 {
			fd.Parameters = toGenaiSchema(d.Parameters)
		}
		fds = append(fds, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: fds}}
}

func toGenaiSchema(s Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t string) genai.Type {
	switch t {
	case models.SchemaTypeObject:
		return genai.TypeObject
	case string(models.ParamString):
		return genai.TypeString
	case string(models.ParamNumber):
		return genai.TypeNumber
	case string(models.ParamInteger):
		return genai.TypeInteger
	case string(models.ParamBoolean):
		return genai.TypeBoolean
	}
	return genai.TypeUnspecified
}

// mapGenaiResponse picks the first function call of the first candidate if
// there is one, otherwise the concatenated text.
func mapGenaiResponse(resp *genai.GenerateContentResponse, requestedModel string) (*GenerationResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrMalformedResponse, resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}

	cand := resp.Candidates[0]
	out := &GenerationResponse{ModelUsed: requestedModel, FinishReason: finishReason(cand.FinishReason)}
	if resp.UsageMetadata != nil {
		out.Usage = map[string]int{
			"prompt_tokens":     int(resp.UsageMetadata.PromptTokenCount),
			"completion_tokens": int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	var text strings.Builder
	var parts []genai.Part
	if cand.Content != nil {
		parts = cand.Content.Parts
	}
	for _, part := range parts {
		switch v := part.(type) {
		case genai.FunctionCall:
			out.FunctionCall = &models.FunctionCall{Name: v.Name, Args: v.Args}
			return out, nil
		case *genai.FunctionCall:
			out.FunctionCall = &models.FunctionCall{Name: v.Name, Args: v.Args}
			return out, nil
		case genai.Text:
			text.WriteString(string(v))
		}
	}
	out.Text = text.String()
	// An empty answer must never reach the history: Gemini rejects empty text parts.
	if out.Text == "" {
		return nil, fmt.Errorf("%w: empty candidate (finish %s)", ErrMalformedResponse, out.FinishReason)
	}
	return out, nil
}

// finishReason maps genai finish reasons onto the provider-neutral set.
func finishReason(r genai.FinishReason) string {
	switch r {
	case genai.FinishReasonUnspecified, genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "length"
	case genai.FinishReasonSafety, genai.FinishReasonRecitation:
		return "content_filter"
	}
	return "other"
}
