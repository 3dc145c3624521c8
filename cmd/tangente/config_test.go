// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tangente/pkg/types"
)

func TestResolveAPIKey(t *testing.T) {
	env := map[string]string{}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name    string
		ai      types.AIConfig
		env     map[string]string
		secrets map[string]string
		want    string
	}{
		{
			name: "explicit key wins",
			ai:   types.AIConfig{Provider: types.ProviderGemini, APIKey: "flag"},
			env:  map[string]string{"GEMINI_API_KEY": "env", "API_KEY": "generic"},
			want: "flag",
		},
		{
			name: "provider variable before generic",
			ai:   types.AIConfig{Provider: types.ProviderClaude},
			env:  map[string]string{"ANTHROPIC_API_KEY": "anthropic", "API_KEY": "generic"},
			want: "anthropic",
		},
		{
			name: "other provider variable ignored",
			ai:   types.AIConfig{Provider: types.ProviderOpenAI},
			env:  map[string]string{"GEMINI_API_KEY": "gemini", "API_KEY": "generic"},
			want: "generic",
		},
		{
			name:    "secrets file last",
			ai:      types.AIConfig{Provider: types.ProviderOpenAI},
			secrets: map[string]string{"openai-api-key": "from-file", "gemini-api-key": "other"},
			want:    "from-file",
		},
		{
			name: "nothing configured",
			ai:   types.AIConfig{Provider: types.ProviderGemini},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env = tt.env
			assert.Equal(t, tt.want, resolveAPIKey(tt.ai, getenv, tt.secrets))
		})
	}
}

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY", "API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)

	assert.Equal(t, types.ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, types.DefaultTemperature, cfg.AI.Temperature)
	assert.Equal(t, types.DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, types.DefaultExploreTimeout, cfg.Server.ExploreTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.AI.APIKey)
}

func TestLoadConfig_File(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	path := filepath.Join(t.TempDir(), "tangente.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`ai:
  provider: OpenAI
  model: gpt-4o
  base_url: http://localhost:11434/v1
  temperature: 0.5
server:
  addr: ":9090"
  explore_timeout: 30s
log:
  format: json
`), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, types.ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
	assert.Equal(t, "http://localhost:11434/v1", cfg.AI.BaseURL)
	assert.Equal(t, 0.5, cfg.AI.Temperature)
	assert.Equal(t, "sk-env", cfg.AI.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ExploreTimeout)
	assert.Equal(t, types.DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_SecretsFallback(t *testing.T) {
	clearKeyEnv(t)
	saved := loadedSecrets
	loadedSecrets = map[string]string{"gemini-api-key": "from-secrets"}
	t.Cleanup(func() { loadedSecrets = saved })

	cfg, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "from-secrets", cfg.AI.APIKey)
}
