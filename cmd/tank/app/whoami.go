// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newWhoamiCmd creates a new whoami command
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated registry user",
		Args:  cobra.NoArgs,
		RunE:  whoamiCmdFunc,
	}
}

func whoamiCmdFunc(cmd *cobra.Command, _ []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	if env.Config.Token == "" {
		return fmt.Errorf("not logged in, run `tank login` first")
	}

	resp, err := env.Orch.Client().Whoami(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println(resp.User)
	return nil
}
