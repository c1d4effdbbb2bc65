// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// newSearchCmd creates a new search command
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the registry for skills",
		Long:  `Run a free-text query against the registry's skill index and print matching name, description, and latest version.`,
		Args:  cobra.ExactArgs(1),
		RunE:  searchCmdFunc,
	}
}

func searchCmdFunc(cmd *cobra.Command, args []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	resp, err := env.Orch.Client().Search(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		fmt.Println("No skills matched that query")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader([]string{"Name", "Latest Version", "Description"}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
	)

	for _, result := range resp.Results {
		if err := table.Append([]string{result.Name, result.LatestVersion, result.Description}); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	return table.Render()
}
