// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVerifyCmd creates a new verify command
func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every lockfile entry against the extracted tree",
		Long:  `Confirm every skills.lock entry's extraction directory is present on disk, reporting any that are missing.`,
		Args:  cobra.NoArgs,
		RunE:  verifyCmdFunc,
	}
}

func verifyCmdFunc(cmd *cobra.Command, _ []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	results, verifyErr := env.Orch.Verify(env.Root)
	for _, result := range results {
		status := "ok"
		if !result.Present {
			status = "MISSING"
		}
		fmt.Printf("%s@%s: %s\n", result.Name, result.Version, status)
	}

	return verifyErr
}
