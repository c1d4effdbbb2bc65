// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newUpdateCmd creates a new update command
func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update [name]",
		Short: "Update a skill, or every skill, to its highest matching version",
		Long:  `Re-resolve one skill (or every skill in skills.json) against the registry's current version listings and re-install any whose resolved version changed.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  updateCmdFunc,
	}
	cmd.Flags().BoolP("global", "g", false, "Update the user-home tree instead of the project")
	return cmd
}

func updateCmdFunc(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	results, err := env.Orch.Update(cmd.Context(), env.Root, name, global)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No skills to update")
		return nil
	}

	for _, result := range results {
		if result.Updated {
			fmt.Printf("Updated %s: %s -> %s\n", result.Name, result.PreviousVersion, result.NewVersion)
		} else {
			fmt.Printf("%s is already at the highest matching version (%s)\n", result.Name, result.NewVersion)
		}
	}
	return nil
}
