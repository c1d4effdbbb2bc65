// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/orchestrator"
)

// newPublishCmd creates a new publish command
func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the skill in the current directory",
		Long:  `Run the publish state machine: validate, pack, reserve, upload, and confirm.`,
		Args:  cobra.NoArgs,
		RunE:  publishCmdFunc,
	}
	cmd.Flags().Bool("dry-run", false, "Stop after packing, without contacting the registry")
	return cmd
}

func publishCmdFunc(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	result, err := env.Orch.Publish(cmd.Context(), env.Root, dryRun)
	if err != nil {
		printPublishProgress(result)
		return err
	}

	printPublishProgress(result)
	return nil
}

func printPublishProgress(result *orchestrator.PublishResult) {
	if result == nil {
		return
	}
	if result.DryRun && result.Stage == orchestrator.StagePacked {
		fmt.Printf("Dry run: version %s packed successfully, stopping before publish\n", result.Version)
		return
	}
	switch result.Stage {
	case orchestrator.StageComplete:
		fmt.Printf("Published version %s\n", result.Version)
		if result.SkillID != "" {
			fmt.Printf("Skill ID: %s\n", canonicalID(result.SkillID))
		}
		if result.VersionID != "" {
			fmt.Printf("Version ID: %s\n", canonicalID(result.VersionID))
		}
	default:
		fmt.Printf("Publish stopped at stage %s\n", result.Stage)
	}
}

// canonicalID renders id in canonical UUID form when the registry assigned
// one, falling back to the raw id for registries that hand out opaque
// non-UUID identifiers instead.
func canonicalID(id string) string {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return parsed.String()
}
