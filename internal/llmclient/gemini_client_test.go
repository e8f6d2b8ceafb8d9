package llmclient

import (
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTools() []models.ToolDefinition {
	return []models.ToolDefinition{
		{
			Name:        "add",
			Description: "Add two numbers together",
			Params: []models.ParamSpec{
				{Name: "a", Kind: models.ParamNumber, Required: true},
				{Name: "b", Kind: models.ParamNumber, Required: true},
			},
		},
		{Name: "getTwitterPosts", Description: "Get the latest posts"},
	}
}

func TestToFunctionDeclarations(t *testing.T) {
	decls := ToFunctionDeclarations(sampleTools())
	require.Len(t, decls, 2)

	add := decls[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, "Add two numbers together", add.Description)
	assert.Equal(t, "object", add.Parameters.Type)
	assert.Equal(t, []string{"a", "b"}, add.Parameters.Required)
	assert.Equal(t, Schema{Type: "number"}, add.Parameters.Properties["a"])

	posts := decls[1]
	assert.Equal(t, "object", posts.Parameters.Type)
	assert.Empty(t, posts.Parameters.Properties)
	assert.Empty(t, posts.Parameters.Required)
}

func TestToGenaiTools(t *testing.T) {
	tools := toGenaiTools(ToFunctionDeclarations(sampleTools()))
	require.Len(t, tools, 1)
	fds := tools[0].FunctionDeclarations
	require.Len(t, fds, 2)

	require.NotNil(t, fds[0].Parameters)
	assert.Equal(t, genai.TypeObject, fds[0].Parameters.Type)
	assert.Equal(t, genai.TypeNumber, fds[0].Parameters.Properties["b"].Type)
	assert.Equal(t, []string{"a", "b"}, fds[0].Parameters.Required)

	assert.Nil(t, fds[1].Parameters, "parameterless tools carry no schema")

	assert.Nil(t, toGenaiTools(nil))
}

func TestToGenaiContents_RolesAndParts(t *testing.T) {
	history := []models.Message{
		models.NewTextMessage(models.RoleUser, "What is 2+2?"),
		{Role: models.RoleAssistant, Parts: []models.Part{&models.FunctionCall{Name: "add", Args: map[string]any{"a": 2.0}}}},
		models.NewTextMessage(models.RoleAssistant, "Result is 4"),
	}

	contents, err := toGenaiContents(history)
	require.NoError(t, err)
	require.Len(t, contents, 3)

	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, genai.Text("What is 2+2?"), contents[0].Parts[0])
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, genai.FunctionCall{Name: "add", Args: map[string]any{"a": 2.0}}, contents[1].Parts[0])
	assert.Equal(t, "model", contents[2].Role)
}

func TestToGenaiContents_Empty(t *testing.T) {
	_, err := toGenaiContents(nil)
	assert.Error(t, err)

	_, err = toGenaiContents([]models.Message{{Role: "system", Parts: []models.Part{models.TextPart{Text: "x"}}}})
	assert.Error(t, err)
}

func TestMapGenaiResponse_Text(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []genai.Part{genai.Text("The answer "), genai.Text("is 4.")}},
			FinishReason: genai.FinishReasonStop,
		}},
		UsageMetadata: &genai.UsageMetadata{PromptTokenCount: 3, CandidatesTokenCount: 5},
	}

	out, err := mapGenaiResponse(resp, "gemini-2.0-flash")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 4.", out.Text)
	assert.Nil(t, out.FunctionCall)
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
	assert.Equal(t, map[string]int{"prompt_tokens": 3, "completion_tokens": 5}, out.Usage)
}

func TestMapGenaiResponse_FunctionCallWins(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text("let me add"),
				genai.FunctionCall{Name: "add", Args: map[string]any{"a": 2.0, "b": 2.0}},
				genai.FunctionCall{Name: "ignored"},
			}},
		}},
	}

	out, err := mapGenaiResponse(resp, "m")
	require.NoError(t, err)
	require.NotNil(t, out.FunctionCall)
	assert.Equal(t, "add", out.FunctionCall.Name)
	assert.Equal(t, map[string]any{"a": 2.0, "b": 2.0}, out.FunctionCall.Args)
	assert.Equal(t, "stop", out.FinishReason)
}

func TestMapGenaiResponse_NoCandidates(t *testing.T) {
	_, err := mapGenaiResponse(&genai.GenerateContentResponse{}, "m")
	assert.True(t, errors.Is(err, ErrMalformedResponse))

	_, err = mapGenaiResponse(nil, "m")
	assert.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestMapGenaiResponse_EmptyCandidateIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		cand *genai.Candidate
		want string
	}{
		{name: "SafetyNoContent", cand: &genai.Candidate{FinishReason: genai.FinishReasonSafety}, want: "content_filter"},
		{name: "MaxTokensNoParts", cand: &genai.Candidate{Content: &genai.Content{Role: "model"}, FinishReason: genai.FinishReasonMaxTokens}, want: "length"},
		{name: "EmptyText", cand: &genai.Candidate{Content: &genai.Content{Parts: []genai.Part{genai.Text("")}}, FinishReason: genai.FinishReasonStop}, want: "stop"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := mapGenaiResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{tt.cand}}, "m")
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, ErrMalformedResponse))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFinishReason(t *testing.T) {
	tests := map[genai.FinishReason]string{
		genai.FinishReasonUnspecified: "stop",
		genai.FinishReasonStop:        "stop",
		genai.FinishReasonMaxTokens:   "length",
		genai.FinishReasonSafety:      "content_filter",
		genai.FinishReasonRecitation:  "content_filter",
		genai.FinishReasonOther:       "other",
	}
	for in, want := range tests {
		assert.Equal(t, want, finishReason(in), "finish reason %v", in)
	}
}
