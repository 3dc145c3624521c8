// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"fmt"
	"net/http"

	"github.com/pdiddy/tangente/pkg/types"
)

// NewBackend builds the backend selected by cfg.Provider. The HTTP client
// gets cfg.Timeout as its overall request timeout.
func NewBackend(cfg types.AIConfig) (Backend, error) {
	client := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case types.ProviderGemini, "":
		return &GeminiBackend{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	case types.ProviderClaude:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	case types.ProviderOpenAI:
		return &OpenAIBackend{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q (want gemini, claude or openai)", cfg.Provider)
	}
}
