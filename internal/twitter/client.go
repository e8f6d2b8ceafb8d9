// internal/twitter/client.go
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is the X API v2 host.
const DefaultBaseURL = "https://api.twitter.com"

// ErrMissingCredentials is returned by every call when the client was built
// without the full set of OAuth 1.0a secrets.
var ErrMissingCredentials = errors.New("twitter credentials are not configured")

// Post is a single status update as returned by the X API.
type Post struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Client defines the operations the tool handlers need from the X API.
type Client interface {
	// CreatePost publishes a new status for the authenticated user.
	CreatePost(ctx context.Context, status string) (*Post, error)
	// RecentPosts returns the authenticated user's most recent statuses.
	RecentPosts(ctx context.Context) ([]Post, error)
}

// Credentials are the four OAuth 1.0a user-context secrets.
type Credentials struct {
	APIKey            string
	APIKeySecret      string
	AccessToken       string
	AccessTokenSecret string
}

// Complete reports whether every secret is set.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APIKeySecret != "" && c.AccessToken != "" && c.AccessTokenSecret != ""
}

// Config holds the settings for the HTTP client.
type Config struct {
	Credentials Credentials
	BaseURL     string        // Defaults to DefaultBaseURL
	Timeout     time.Duration // Zero means no client-side timeout
	MaxResults  int           // Page size for RecentPosts, 5..100
}

// APIError is a non-2xx answer from the X API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("twitter API returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Title != "":
		msg += ": " + e.Title
	}
	return msg
}

// httpClient implements the Client interface on top of a signed http.Client.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxResults int
	configured bool
}

var _ Client = (*httpClient)(nil) // Compile-time check

// NewHTTPClient creates the shared authenticated client. Missing credentials
// do not fail construction; calls then return ErrMissingCredentials.
func NewHTTPClient(cfg Config) Client {
	var client *http.Client
	if cfg.Credentials.Complete() {
		oauthCfg := oauth1.NewConfig(cfg.Credentials.APIKey, cfg.Credentials.APIKeySecret)
		token := oauth1.NewToken(cfg.Credentials.AccessToken, cfg.Credentials.AccessTokenSecret)
		client = oauthCfg.Client(oauth1.NoContext, token)
	} else {
		log.Warn("Twitter credentials incomplete; twitter tools will report an error when called.")
		client = &http.Client{}
	}
	client.Timeout = cfg.Timeout

	return newHTTPClient(client, cfg.BaseURL, cfg.MaxResults, cfg.Credentials.Complete())
}

func newHTTPClient(client *http.Client, baseURL string, maxResults int, configured bool) *httpClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxResults < 5 || maxResults > 100 {
		maxResults = 10
	}
	return &httpClient{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		configured: configured,
	}
}

// CreatePost implements the Client interface.
func (c *httpClient) CreatePost(ctx context.Context, status string) (*Post, error) {
	var resp struct {
		Data Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/2/tweets", map[string]string{"text": status}, &resp); err != nil {
		return nil, err
	}
	log.WithField("post_id", resp.Data.ID).Info("Created post")
	return &resp.Data, nil
}

// RecentPosts implements the Client interface.
func (c *httpClient) RecentPosts(ctx context.Context) ([]Post, error) {
	var me struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/2/users/me", nil, &me); err != nil {
		return nil, fmt.Errorf("failed to resolve authenticated user: %w", err)
	}
	if me.Data.ID == "" {
		return nil, errors.New("authenticated user lookup returned no id")
	}

	query := url.Values{}
	query.Set("max_results", strconv.Itoa(c.maxResults))
	path := fmt.Sprintf("/2/users/%s/tweets?%s", url.PathEscape(me.Data.ID), query.Encode())

	var timeline struct {
		Data []Post `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &timeline); err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d posts for @%s", len(timeline.Data), me.Data.Username)
	return timeline.Data, nil
}

// do sends one request and decodes a successful JSON body into out.
func (c *httpClient) do(ctx context.Context, method, path string, payload any, out any) error {
	if !c.configured {
		return ErrMissingCredentials
	}

	var body io.Reader
	if payload != nil {
		requestBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(requestBytes)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	if payload != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	httpRequest.Header.Set("Accept", "application/json")

	log.Debugf("Sending %s %s", method, path)

	httpResponse, err := c.client.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("http client error calling %s: %w", path, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))
		return decodeAPIError(httpResponse.StatusCode, bodyBytes)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(httpResponse.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// decodeAPIError extracts the problem title/detail or the first error message.
func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &problem); err == nil {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
		if apiErr.Detail == "" && len(problem.Errors) > 0 {
			apiErr.Detail = problem.Errors[0].Message
		}
	} else if len(body) > 0 {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	log.Warn(apiErr.Error())
	return apiErr
}
