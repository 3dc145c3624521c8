// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tangente/pkg/types"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "List suggested topics",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range types.SuggestedTopics {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
