// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/manifest"
)

// newInitCmd creates a new init command
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter skills.json",
		Long:  `Interactively create a starter skills.json in the current directory.`,
		Args:  cobra.NoArgs,
		RunE:  initCmdFunc,
	}
}

func initCmdFunc(_ *cobra.Command, _ []string) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve current directory: %w", err)
	}

	if manifest.Exists(root) {
		return fmt.Errorf("%s already exists in %s", manifest.FileName, root)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Tank Skill Init")
	fmt.Println("===============")
	fmt.Println()

	name := prompt(reader, "Skill name (lowercase, hyphens, optional @scope/): ")
	version := prompt(reader, "Version [0.1.0]: ")
	if version == "" {
		version = "0.1.0"
	}
	description := prompt(reader, "Description: ")

	m := &manifest.Manifest{
		Name:        strings.ToLower(name),
		Version:     version,
		Description: description,
	}
	if err := m.Validate(); err != nil {
		return err
	}

	if err := manifest.Save(root, m); err != nil {
		return err
	}

	fmt.Printf("Wrote %s/%s\n", root, manifest.FileName)
	return nil
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
