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
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"
)

// GeminiBackend calls the Generative Language API generateContent method with
// a JSON response schema.
type GeminiBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// geminiPart is one text part of a message.
type geminiPart struct {
	Text string `json:"text"`
}

// geminiContent is a single turn of the conversation.
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

// geminiGenerationConfig carries sampling and structured-output settings.
type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

// geminiRequest is the request body for generateContent.
type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

// geminiResponse is the subset of the generateContent response we read.
type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Name implements Backend.
func (g *GeminiBackend) Name() string { return string(types.ProviderGemini) }

// Generate implements Backend.
func (g *GeminiBackend) Generate(ctx context.Context, p Prompt) (string, error) {
	if g.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: p.User}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      p.Temperature,
			ResponseMimeType: "application/json",
			ResponseSchema:   p.Schema.forGemini(),
		},
	}
	if p.System != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.System}}}
	}

	model := g.Model
	if model == "" {
		model = defaultGeminiModel
	}
	base := g.BaseURL
	if base == "" {
		base = defaultGeminiBaseURL
	}
	url := strings.TrimRight(base, "/") + "/models/" + model + ":generateContent"

	body, err := httputil.PostJSON(ctx, g.Client, url, map[string]string{"x-goog-api-key": g.APIKey}, reqBody)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
