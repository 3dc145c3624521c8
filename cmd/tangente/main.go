// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tangente CLI: it serves the web
// explorer and runs one-shot explorations from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tangente/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir is where per-provider API key files are looked up.
const secretsDir = ".secrets/"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the tangente CLI.
var rootCmd = &cobra.Command{
	Use:   "tangente",
	Short: "Explore the logic vs. the tangent of any topic",
	Long: `tangente asks a generative model for two explanations of a topic: a strictly
logical linear path and a creatively drifting tangent path, together with a
0-100 divergence score.

Run "tangente serve" for the web explorer or "tangente explore <topic>" for a
one-shot answer in the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./tangente.yaml or ~/.config/tangente/tangente.yaml)")
	pf.String("provider", "", "AI provider: gemini, claude or openai")
	pf.String("model", "", "model identifier (default depends on provider)")
	pf.String("api-key", "", "API key for the provider")
	pf.String("base-url", "", "override the provider API base URL")
	pf.Float64("temperature", 0, "sampling temperature (default 0.8)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: console or json")

	bindFlag("ai.provider", "provider")
	bindFlag("ai.model", "model")
	bindFlag("ai.api_key", "api-key")
	bindFlag("ai.base_url", "base-url")
	bindFlag("ai.temperature", "temperature")
	bindFlag("log.level", "log-level")
	bindFlag("log.format", "log-format")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tangente")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tangente"))
		}
	}

	viper.SetEnvPrefix("TANGENTE")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
