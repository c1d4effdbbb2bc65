// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/linkmanager"
	"github.com/tankpkg/tank/pkg/manifest"
)

// newUnlinkCmd creates a new unlink command
func newUnlinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink",
		Short: "Reverse a dev link for the skill in the current directory",
		Long:  `Remove the agent symlinks and links.json entry created by a prior link, without touching the source directory.`,
		Args:  cobra.NoArgs,
		RunE:  unlinkCmdFunc,
	}
}

func unlinkCmdFunc(_ *cobra.Command, _ []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve current directory: %w", err)
	}

	m, err := manifest.Load(dir)
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to resolve home directory: %w", err)
	}

	mgr := linkmanager.New(dir, home)
	result, err := mgr.Unlink(m.Name)
	if err != nil {
		return err
	}

	if result.FailedSymlinks > 0 {
		fmt.Printf("Unlinked %s (%d stale agent symlinks could not be removed)\n", m.Name, result.FailedSymlinks)
	} else {
		fmt.Printf("Unlinked %s\n", m.Name)
	}
	return nil
}
