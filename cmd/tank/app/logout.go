// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tankpkg/tank/pkg/config"
)

// newLogoutCmd creates a new logout command
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored registry credentials",
		Long:  `Remove the stored bearer token from the OS keychain (or its file fallback) and clear it from config.json.`,
		Args:  cobra.NoArgs,
		RunE:  logoutCmdFunc,
	}
}

func logoutCmdFunc(cmd *cobra.Command, _ []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := newTokenStore()
	if err != nil {
		return err
	}
	if err := store.DeleteToken(ctx, env.Config.Registry); err != nil {
		return err
	}

	configStore, err := config.NewConfigStore()
	if err != nil {
		return err
	}
	env.Config.Token = ""
	env.Config.User = ""
	if err := configStore.Save(ctx, env.Config); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
