// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInstallCmd creates a new install command
func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [name] [range]",
		Short: "Install a skill, or every skill in skills.json",
		Long: `Resolve name against the registry (or, with no name, every dependency
listed in skills.json), check its declared permissions against the
project's budget, download and extract it, and link it into every
detected agent.`,
		Args: cobra.MaximumNArgs(2),
		RunE: installCmdFunc,
	}
	cmd.Flags().BoolP("global", "g", false, "Install into the user-home tree instead of the project")
	return cmd
}

func installCmdFunc(cmd *cobra.Command, args []string) error {
	global, _ := cmd.Flags().GetBool("global")

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return env.Orch.InstallFromLockfile(cmd.Context(), env.Root, global)
	}

	name := args[0]
	versionRange := ""
	if len(args) == 2 {
		versionRange = args[1]
	}

	result, err := env.Orch.Install(cmd.Context(), env.Root, name, versionRange, global)
	if err != nil {
		return err
	}

	if result.AlreadyInstalled {
		fmt.Printf("%s@%s is already installed\n", result.Name, result.Version)
	} else {
		fmt.Printf("Installed %s@%s\n", result.Name, result.Version)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	return nil
}
