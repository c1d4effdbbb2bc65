// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the tank command-line application.
package app

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tankpkg/tank/pkg/logger"
)

// NewRootCmd creates a new root command for the Tank CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "tank",
		DisableAutoGenTag: true,
		Short:             "Tank is a security-first package manager for AI agent skills",
		Long: `Tank installs, publishes, and audits skills: self-contained instruction
bundles that AI coding agents (Claude, Cursor, Codex, and others) load at
runtime. Every skill declares the network, filesystem, and subprocess
permissions it needs, and Tank checks those requests against a project's
permission budget before anything is downloaded or linked.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				logger.Errorf("Error displaying help: %v", err)
			}
		},
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if viper.GetBool("debug") {
				_ = os.Setenv("TANK_DEBUG", "1")
			}
			logger.Initialize()
		},
	}

	// Add persistent flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (accepted but not read: config is always ~/.tank/config.json)")
	rootCmd.PersistentFlags().String("registry", "", "Registry URL override (default: from config, or https://tankpkg.dev)")

	err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	if err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	err = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	if err != nil {
		logger.Errorf("Error binding config flag: %v", err)
	}

	err = viper.BindPFlag("registry", rootCmd.PersistentFlags().Lookup("registry"))
	if err != nil {
		logger.Errorf("Error binding registry flag: %v", err)
	}

	// Add subcommands
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newPermissionsCmd())
	rootCmd.AddCommand(newLinkCmd())
	rootCmd.AddCommand(newUnlinkCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Silence printing the usage on error
	rootCmd.SilenceUsage = true

	return rootCmd
}

// IsCompletionCommand checks if the command being run is the completion command
func IsCompletionCommand(args []string) bool {
	if len(args) > 1 {
		return args[1] == "completion"
	}
	return false
}
