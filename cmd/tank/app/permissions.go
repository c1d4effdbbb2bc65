// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newPermissionsCmd creates a new permissions command
func newPermissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "List every installed skill's declared permission request",
		Long:  `Read skills.lock and print each installed skill's declared network, filesystem, and subprocess permission request.`,
		Args:  cobra.NoArgs,
		RunE:  permissionsCmdFunc,
	}
	cmd.Flags().String("format", FormatText, "Output format (json or text)")
	return cmd
}

func permissionsCmdFunc(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")

	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	results, err := env.Orch.Permissions(env.Root)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal permissions: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SKILL\tVERSION\tNETWORK\tFILESYSTEM\tSUBPROCESS")
	for _, result := range results {
		network, filesystem, subprocess := "-", "-", "false"
		if p := result.Permissions; p != nil {
			if p.Network != nil {
				network = fmt.Sprintf("%v", p.Network.Outbound)
			}
			if p.Filesystem != nil {
				filesystem = fmt.Sprintf("read=%v write=%v", p.Filesystem.Read, p.Filesystem.Write)
			}
			subprocess = fmt.Sprintf("%t", p.Subprocess)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", result.Name, result.Version, network, filesystem, subprocess)
	}
	return w.Flush()
}
