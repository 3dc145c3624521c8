// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/tangente/internal/logging"
)

var exploreCmd = &cobra.Command{
	Use:   "explore <topic...>",
	Short: "Explore one topic and print both paths",
	Long: `Explore makes a single model call for the topic and prints the linear path,
the tangent path, the divergence score and the derived chart values.

Formats: text (default), json, yaml.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if !validFormat(format) {
			return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
		}

		topic := strings.TrimSpace(strings.Join(args, " "))
		if topic == "" {
			return fmt.Errorf("topic is empty")
		}

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		defer logger.Sync()

		explorer, err := newExplorer(cfg.AI, logger)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.ExploreTimeout)
		defer cancel()

		fmt.Fprintf(os.Stderr, "exploring %q with %s\n", topic, explorer.Provider())
		result, err := explorer.Explore(ctx, topic)
		if err != nil {
			logger.Debug("exploration error", zap.Error(err))
			return fmt.Errorf("exploring %q: %w", topic, err)
		}

		return writeResult(cmd.OutOrStdout(), result, format)
	},
}

func init() {
	exploreCmd.Flags().String("format", formatText, "output format: text, json or yaml")

	rootCmd.AddCommand(exploreCmd)
}
