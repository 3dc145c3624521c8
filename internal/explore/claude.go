// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/tangente/internal/httputil"
	"github.com/pdiddy/tangente/pkg/types"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com/v1"
	defaultClaudeModel   = "claude-sonnet-4-5-20250929"
	claudeMaxTokens      = 4096
	anthropicVersion     = "2023-06-01"
)

// ClaudeBackend calls the Anthropic Messages API. The Messages API has no
// response-schema field, so the schema travels inside the prompt.
type ClaudeBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// claudeRequest is the request body for the Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response from the Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *ClaudeBackend) inlineSchema() {}

// Name implements Backend.
func (c *ClaudeBackend) Name() string { return string(types.ProviderClaude) }

// Generate implements Backend.
func (c *ClaudeBackend) Generate(ctx context.Context, p Prompt) (string, error) {
	if c.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	model := c.Model
	if model == "" {
		model = defaultClaudeModel
	}
	// The Messages API caps temperature at 1.0.
	temp := p.Temperature
	if temp > 1 {
		temp = 1
	}

	reqBody := claudeRequest{
		Model:       model,
		MaxTokens:   claudeMaxTokens,
		System:      p.System,
		Temperature: temp,
		Messages:    []claudeMessage{{Role: "user", Content: p.User}},
	}

	base := c.BaseURL
	if base == "" {
		base = defaultClaudeBaseURL
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": anthropicVersion,
	}

	body, err := httputil.PostJSON(ctx, c.Client, strings.TrimRight(base, "/")+"/messages", headers, reqBody)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var cResp claudeResponse
	if err := json.Unmarshal(body, &cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
