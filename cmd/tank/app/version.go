// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/versions"
)

// newVersionCmd creates a new version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version of Tank",
		Long:  `Display detailed version information about Tank, including version number, git commit, build date, and Go version.`,
		RunE:  versionCmdFunc,
	}

	cmd.Flags().String("format", FormatText, "Output format (json or text)")

	return cmd
}

func versionCmdFunc(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	info := versions.GetVersionInfo()

	if format == FormatJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Tank version: %s\n", info.Version)
	fmt.Printf("Commit: %s\n", info.Commit)
	fmt.Printf("Build date: %s\n", info.BuildDate)
	fmt.Printf("Go version: %s\n", info.GoVersion)
	fmt.Printf("Platform: %s\n", info.Platform)
	return nil
}
