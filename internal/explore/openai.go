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
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIBackend calls any OpenAI-compatible /chat/completions endpoint using
// strict json_schema structured outputs.
type OpenAIBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// chatRequest is the request body for /chat/completions.
type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat requests structured output.
type responseFormat struct {
	Type       string         `json:"type"`
	JSONSchema jsonSchemaSpec `json:"json_schema"`
}

// jsonSchemaSpec names the schema the reply must satisfy.
type jsonSchemaSpec struct {
	Name   string  `json:"name"`
	Strict bool    `json:"strict"`
	Schema *Schema `json:"schema"`
}

// chatResponse is the subset of the completion response we read.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Name implements Backend.
func (o *OpenAIBackend) Name() string { return string(types.ProviderOpenAI) }

// Generate implements Backend.
func (o *OpenAIBackend) Generate(ctx context.Context, p Prompt) (string, error) {
	if o.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	model := o.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	var messages []chatMessage
	if p.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: p.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: p.User})

	reqBody := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.Temperature,
		ResponseFormat: responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchemaSpec{
				Name:   "exploration",
				Strict: true,
				Schema: p.Schema.forStrictJSONSchema(),
			},
		},
	}

	base := o.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	url := strings.TrimRight(base, "/") + "/chat/completions"

	body, err := httputil.PostJSON(ctx, o.Client, url, map[string]string{"Authorization": "Bearer " + o.APIKey}, reqBody)
	if err != nil {
		return "", fmt.Errorf("calling chat completions API: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding chat completions response: %w", err)
	}
	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
