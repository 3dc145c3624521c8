// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tangente/internal/httputil"
	"github.com/pdiddy/tangente/pkg/types"
)

func testPrompt() Prompt {
	return Prompt{
		System:      systemInstruction,
		User:        "Analyze the topic: \"Coffee\".",
		Schema:      ExplorationSchema(),
		Temperature: 0.8,
	}
}

func TestGeminiBackend_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "application/json", req.GenerationConfig.ResponseMimeType)
		assert.Equal(t, 0.8, req.GenerationConfig.Temperature)
		require.NotNil(t, req.GenerationConfig.ResponseSchema)
		assert.Equal(t, "OBJECT", req.GenerationConfig.ResponseSchema.Type)
		require.NotNil(t, req.SystemInstruction)
		assert.Equal(t, systemInstruction, req.SystemInstruction.Parts[0].Text)
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "user", req.Contents[0].Role)

		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"a\":"},{"text":"1}"}]},"finishReason":"STOP"}]}`))
	}))
	defer ts.Close()

	g := &GeminiBackend{APIKey: "test-key", BaseURL: ts.URL, Client: ts.Client()}
	text, err := g.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)
}

func TestGeminiBackend_NoCandidates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer ts.Close()

	g := &GeminiBackend{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	text, err := g.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestGeminiBackend_Blocked(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer ts.Close()

	g := &GeminiBackend{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	_, err := g.Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestGeminiBackend_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer ts.Close()

	g := &GeminiBackend{APIKey: "bad", BaseURL: ts.URL, Client: ts.Client()}
	_, err := g.Generate(context.Background(), testPrompt())

	var se *httputil.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}

func TestClaudeBackend_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultClaudeModel, req.Model)
		assert.Equal(t, systemInstruction, req.System)
		assert.Equal(t, 0.8, req.Temperature)
		require.Len(t, req.Messages, 1)

		w.Write([]byte(`{"content":[{"type":"thinking","text":"hmm"},{"type":"text","text":"{\"ok\":true}"}]}`))
	}))
	defer ts.Close()

	c := &ClaudeBackend{APIKey: "test-key", BaseURL: ts.URL, Client: ts.Client()}
	text, err := c.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)
}

func TestClaudeBackend_ClampsTemperature(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1.0, req.Temperature)
		w.Write([]byte(`{"content":[]}`))
	}))
	defer ts.Close()

	p := testPrompt()
	p.Temperature = 1.4
	c := &ClaudeBackend{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	text, err := c.Generate(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestOpenAIBackend_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "local-model", req.Model)
		assert.Equal(t, "json_schema", req.ResponseFormat.Type)
		assert.True(t, req.ResponseFormat.JSONSchema.Strict)
		require.NotNil(t, req.ResponseFormat.JSONSchema.Schema.AdditionalProperties)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"x\":2}"}}]}`))
	}))
	defer ts.Close()

	o := &OpenAIBackend{APIKey: "test-key", Model: "local-model", BaseURL: ts.URL + "/", Client: ts.Client()}
	text, err := o.Generate(context.Background(), testPrompt())
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, text)
}

func TestOpenAIBackend_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer ts.Close()

	o := &OpenAIBackend{APIKey: "k", BaseURL: ts.URL, Client: ts.Client()}
	_, err := o.Generate(context.Background(), testPrompt())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestBackends_MissingAPIKey(t *testing.T) {
	for _, b := range []Backend{&GeminiBackend{}, &ClaudeBackend{}, &OpenAIBackend{}} {
		_, err := b.Generate(context.Background(), testPrompt())
		assert.ErrorIs(t, err, ErrMissingAPIKey, b.Name())
	}
}

func TestNewBackend(t *testing.T) {
	tests := []struct {
		provider types.Provider
		want     string
	}{
		{"", "gemini"},
		{types.ProviderGemini, "gemini"},
		{types.ProviderClaude, "claude"},
		{types.ProviderOpenAI, "openai"},
	}
	for _, tt := range tests {
		b, err := NewBackend(types.AIConfig{Provider: tt.provider})
		require.NoError(t, err)
		assert.Equal(t, tt.want, b.Name())
	}

	_, err := NewBackend(types.AIConfig{Provider: "mistral"})
	assert.Error(t, err)
}

func TestExplore_EndToEndGemini(t *testing.T) {
	payload, err := json.Marshal(coffeeResponse)
	require.NoError(t, err)

	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + string(payload) + `}]}}]}`))
	}))
	defer ts.Close()

	backend, err := NewBackend(types.AIConfig{Provider: types.ProviderGemini, APIKey: "k", BaseURL: ts.URL})
	require.NoError(t, err)

	result, err := New(backend, 0, nil).Explore(context.Background(), "Coffee")
	require.NoError(t, err)
	assert.Equal(t, 55.0, result.DivergenceScore)
	assert.Len(t, result.LinearPath, 4)
	assert.Equal(t, 1, calls)
}
