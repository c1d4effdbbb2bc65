// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRemoveCmd creates a new remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove an installed skill",
		Long:  `Delete a skill's extracted files, its lockfile and skills.json entries, and unlink it from every host agent.`,
		Args:  cobra.ExactArgs(1),
		RunE:  removeCmdFunc,
	}
	cmd.Flags().BoolP("global", "g", false, "Remove from the user-home tree instead of the project")
	return cmd
}

func removeCmdFunc(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	if err := env.Orch.Remove(env.Root, args[0], global); err != nil {
		return err
	}

	fmt.Printf("Removed %s\n", args[0])
	return nil
}
