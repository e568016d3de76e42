// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Askboard CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askboard",
		Short: "Askboard - a question and answer service",
		Long: `Askboard is a question and answer service with account
registration, encrypted session tokens, and profanity moderation of
submitted content.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
