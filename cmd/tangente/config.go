// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/tangente/internal/secrets"
	"github.com/pdiddy/tangente/pkg/types"
)

// envKeyReplacer maps nested keys to env names: ai.api_key -> TANGENTE_AI_API_KEY.
var envKeyReplacer = strings.NewReplacer(".", "_")

// providerEnv is the conventional API key variable for each provider.
var providerEnv = map[types.Provider]string{
	types.ProviderGemini: "GEMINI_API_KEY",
	types.ProviderClaude: "ANTHROPIC_API_KEY",
	types.ProviderOpenAI: "OPENAI_API_KEY",
}

// loadConfig reads the merged configuration from v and applies defaults.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg = cfg.Defaults()
	cfg.AI.Provider = types.Provider(strings.ToLower(string(cfg.AI.Provider)))
	cfg.AI.APIKey = resolveAPIKey(cfg.AI, os.Getenv, loadedSecrets)
	return cfg, nil
}

// resolveAPIKey picks the first non-empty key from, in order: explicit
// config (flag, file, TANGENTE_AI_API_KEY), the provider's conventional
// variable, API_KEY, and the secrets directory file "<provider>-api-key".
// An empty result is not an error here; the backend reports it at call time.
func resolveAPIKey(ai types.AIConfig, getenv func(string) string, keys map[string]string) string {
	if ai.APIKey != "" {
		return ai.APIKey
	}
	if name, ok := providerEnv[ai.Provider]; ok {
		if v := getenv(name); v != "" {
			return v
		}
	}
	if v := getenv("API_KEY"); v != "" {
		return v
	}
	return keys[secrets.APIKeyFile(string(ai.Provider))]
}

func init() {
	viper.SetDefault("ai.provider", string(types.ProviderGemini))
	viper.SetDefault("ai.temperature", types.DefaultTemperature)
	viper.SetDefault("ai.timeout", types.DefaultAITimeout)
	viper.SetDefault("server.addr", types.DefaultAddr)
	viper.SetDefault("server.explore_timeout", types.DefaultExploreTimeout)
	viper.SetDefault("server.read_timeout", types.DefaultReadTimeout)
	viper.SetDefault("server.write_timeout", types.DefaultWriteTimeout)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
}
