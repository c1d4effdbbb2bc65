// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/orchestrator"
)

// newAuditCmd creates a new audit command
func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [name]",
		Short: "Fetch current registry audit scores for installed skills",
		Long:  `Fetch the current registry-reported audit score and status for one skill, or every skill in skills.lock if name is omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  auditCmdFunc,
	}
}

func auditCmdFunc(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	results, err := env.Orch.Audit(cmd.Context(), env.Root, name)
	if err != nil {
		return err
	}

	var negative bool
	for _, result := range results {
		score := "n/a"
		if result.AuditScore != nil {
			score = fmt.Sprintf("%.2f", *result.AuditScore)
		}
		fmt.Printf("%s@%s: %s (score %s, status %s)\n", result.Name, result.Version, result.Verdict, score, result.AuditStatus)
		if result.Verdict == orchestrator.VerdictFlagged || result.Verdict == orchestrator.VerdictFailed {
			negative = true
		}
	}

	if negative {
		return fmt.Errorf("one or more skills failed audit")
	}
	return nil
}
