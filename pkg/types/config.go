// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Provider identifies the generative model service used by the explorer.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// AIConfig holds settings for the model call made on each exploration.
type AIConfig struct {
	// Provider selects the backend: gemini, claude, or openai (default gemini).
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier. Empty selects the provider default.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible gateways, tests).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (default 0.8). Both paths are
	// requested in one call, so it stays elevated for the creative path.
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// Timeout bounds a single HTTP round trip to the provider (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig holds settings for the serve command.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ExploreTimeout bounds one background exploration (default 90s).
	ExploreTimeout time.Duration `json:"explore_timeout" yaml:"explore_timeout" mapstructure:"explore_timeout"`

	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "json" or "console" (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings read from tangente.yaml and the environment.
type Config struct {
	AI     AIConfig     `json:"ai" yaml:"ai" mapstructure:"ai"`
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
	Log    LogConfig    `json:"log" yaml:"log" mapstructure:"log"`
}

const (
	DefaultTemperature    = 0.8
	DefaultAITimeout      = 60 * time.Second
	DefaultAddr           = ":8080"
	DefaultExploreTimeout = 90 * time.Second
	DefaultReadTimeout    = 15 * time.Second
	DefaultWriteTimeout   = 120 * time.Second
)

// Defaults fills zero-valued fields with their defaults and returns the
// updated config.
func (c Config) Defaults() Config {
	if c.AI.Provider == "" {
		c.AI.Provider = ProviderGemini
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = DefaultTemperature
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = DefaultAITimeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ExploreTimeout <= 0 {
		c.Server.ExploreTimeout = DefaultExploreTimeout
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	return c
}
