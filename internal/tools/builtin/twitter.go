// internal/tools/builtin/twitter.go
package builtin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kathir-ks/mcp-toolchat/internal/models"
	"github.com/kathir-ks/mcp-toolchat/internal/tools"
	"github.com/kathir-ks/mcp-toolchat/internal/twitter"
	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
)

const (
	CreatePostToolName = "createTwitterPost"
	GetPostsToolName   = "getTwitterPosts"
)

// CreatePostTool publishes a status through the shared X API client.
type CreatePostTool struct {
	client twitter.Client
}

// GetPostsTool reads the authenticated user's recent statuses.
type GetPostsTool struct {
	client twitter.Client
}

var (
	_ tools.Executor = (*CreatePostTool)(nil)
	_ tools.Executor = (*GetPostsTool)(nil)
)

// NewCreatePostTool binds the tool to an authenticated client.
func NewCreatePostTool(client twitter.Client) *CreatePostTool {
	return &CreatePostTool{client: client}
}

// NewGetPostsTool binds the tool to an authenticated client.
func NewGetPostsTool(client twitter.Client) *GetPostsTool {
	return &GetPostsTool{client: client}
}

// GetDefinition implements the tools.Executor interface.
func (t *CreatePostTool) GetDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        CreatePostToolName,
		Description: "Create a post on X formally known as Twitter",
		Params: []models.ParamSpec{
			{Name: "status", Kind: models.ParamString, Description: "The text of the post.", Required: true},
		},
	}
}

// Execute implements the tools.Executor interface.
func (t *CreatePostTool) Execute(ctx context.Context, params map[string]any) (models.ToolInvocationResult, error) {
	var in struct {
		Status string `mapstructure:"status"`
	}
	if err := mapstructure.Decode(params, &in); err != nil {
		return models.ToolInvocationResult{}, fmt.Errorf("decode %s parameters: %w", CreatePostToolName, err)
	}

	if _, err := t.client.CreatePost(ctx, in.Status); err != nil {
		log.WithField("tool", CreatePostToolName).Warnf("Post failed: %v", err)
		return models.ErrorResult("Error posting tweet: " + err.Error()), nil
	}
	return models.TextResult("Post created: " + in.Status), nil
}

// GetDefinition implements the tools.Executor interface.
func (t *GetPostsTool) GetDefinition() models.ToolDefinition {
	return models.ToolDefinition{
		Name:        GetPostsToolName,
		Description: "Get the latest posts from X formally known as Twitter",
	}
}

// Execute implements the tools.Executor interface.
func (t *GetPostsTool) Execute(ctx context.Context, params map[string]any) (models.ToolInvocationResult, error) {
	posts, err := t.client.RecentPosts(ctx)
	if err != nil {
		log.WithField("tool", GetPostsToolName).Warnf("Fetch failed: %v", err)
		return models.ErrorResult("Error fetching posts: " + err.Error()), nil
	}
	if posts == nil {
		posts = []twitter.Post{}
	}
	encoded, err := json.Marshal(posts)
	if err != nil {
		return models.ToolInvocationResult{}, fmt.Errorf("encode posts: %w", err)
	}
	return models.TextResult("Posts: " + string(encoded)), nil
}
