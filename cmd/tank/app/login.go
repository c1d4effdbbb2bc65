// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tankpkg/tank/pkg/config"
)

// newLoginCmd creates a new login command
func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the registry",
		Long:  `Prompt for a username and password, exchange them for a bearer token, and store the token for subsequent commands.`,
		Args:  cobra.NoArgs,
		RunE:  loginCmdFunc,
	}
}

func loginCmdFunc(cmd *cobra.Command, _ []string) error {
	env, err := newCommandEnv(cmd)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)
	username := prompt(reader, "Username: ")

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimSpace(string(passwordBytes))

	resp, err := env.Orch.Client().Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := newTokenStore()
	if err != nil {
		return err
	}
	if err := store.SetToken(ctx, env.Config.Registry, resp.Token); err != nil {
		return err
	}

	configStore, err := config.NewConfigStore()
	if err != nil {
		return err
	}
	env.Config.Token = resp.Token
	env.Config.User = resp.User
	if err := configStore.Save(ctx, env.Config); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", resp.User)
	return nil
}
