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

// newLinkCmd creates a new link command
func newLinkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Dev-link the skill in the current directory into every detected agent",
		Long:  `Read skills.json in the current directory and symlink it, unpacked, into every detected agent's skills directory, without going through install or the registry.`,
		Args:  cobra.NoArgs,
		RunE:  linkCmdFunc,
	}
}

func linkCmdFunc(_ *cobra.Command, _ []string) error {
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
	if err := mgr.Link(m.Name, m.Version, linkmanager.SourceDev, dir); err != nil {
		return err
	}

	fmt.Printf("Dev-linked %s@%s from %s\n", m.Name, m.Version, dir)
	return nil
}
