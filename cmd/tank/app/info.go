// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newInfoCmd creates a new info command
func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <name>",
		Short: "Show a skill's registry metadata",
		Long:  `Fetch and print a single skill's description, repository URL, and latest version.`,
		Args:  cobra.ExactArgs(1),
		RunE:  infoCmdFunc,
	}
	cmd.Flags().String("format", FormatText, "Output format (json or text)")
	return cmd
}

func infoCmdFunc(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	info, err := env.Orch.Client().Info(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal info: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Name: %s\n", info.Name)
	fmt.Printf("Description: %s\n", info.Description)
	fmt.Printf("Repository: %s\n", info.RepositoryURL)
	fmt.Printf("Latest version: %s\n", info.LatestVersion)
	return nil
}
