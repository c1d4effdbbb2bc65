// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/tankpkg/tank/pkg/orchestrator"
)

// registryProbeTimeout bounds the ad-hoc reachability probe doctor makes
// against the configured registry, separate from the typed client's own
// MetadataTimeout since this call tolerates a non-JSON or even non-2xx
// response rather than erroring out.
const registryProbeTimeout = 10 * time.Second

// newDoctorCmd creates a new doctor command
func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose agent detection, link health, and registry reachability",
		Long:  `Report detected agent installations, every local/global/dev skill's linked status, any dangling links.json entries, and whether the configured registry responds.`,
		Args:  cobra.NoArgs,
		RunE:  doctorCmdFunc,
	}
}

func doctorCmdFunc(cmd *cobra.Command, _ []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	report, err := env.Orch.Doctor(env.Root)
	if err != nil {
		return err
	}

	fmt.Println("Detected agents:")
	if len(report.InstalledAgents) == 0 {
		fmt.Println("  none")
	}
	for _, agent := range report.InstalledAgents {
		fmt.Printf("  %s\n", agent)
	}
	fmt.Println()

	renderSkillsTable("Local skills", report.LocalSkills)
	renderSkillsTable("Global skills", report.GlobalSkills)
	renderSkillsTable("Dev links", report.DevLinks)

	if len(report.Violations) > 0 {
		fmt.Println("Link violations:")
		for _, v := range report.Violations {
			fmt.Printf("  %s: %s\n", v.Skill, v.Detail)
		}
		fmt.Println()
	}

	fmt.Printf("Registry %s: %s\n", env.Config.Registry, probeRegistry(env.Config.Registry))

	if len(report.Violations) > 0 {
		return fmt.Errorf("%d link violation(s) found", len(report.Violations))
	}
	return nil
}

// probeRegistry issues a best-effort GET against the registry's health
// endpoint and reports reachability. Unlike the typed registryclient
// calls, this tolerates any response shape: gjson picks the "status"
// field out of whatever JSON (or non-JSON) body comes back rather than
// requiring it to unmarshal cleanly.
func probeRegistry(baseURL string) string {
	client := &http.Client{Timeout: registryProbeTimeout}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return fmt.Sprintf("unreachable (%v)", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("reachable, but failed to read response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Sprintf("reachable, HTTP %d", resp.StatusCode)
	}

	status := gjson.GetBytes(body, "status")
	if status.Exists() {
		return fmt.Sprintf("reachable (status: %s)", status.String())
	}
	return "reachable"
}

// renderSkillsTable prints one of doctor's three skill sections as a
// table, skipping the section entirely when empty.
func renderSkillsTable(title string, skills []orchestrator.DoctorSkill) {
	if len(skills) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.Options(
		tablewriter.WithHeader([]string{"Name", "Version", "Linked"}),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
	)
	for _, s := range skills {
		linked := "no"
		if s.Linked {
			linked = "yes"
		}
		_ = table.Append([]string{s.Name, s.Version, linked})
	}
	_ = table.Render()
	fmt.Println()
}
