// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tankpkg/tank/pkg/auth"
	"github.com/tankpkg/tank/pkg/config"
	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/orchestrator"
	"github.com/tankpkg/tank/pkg/tankctx"
)

// commandEnv bundles the pieces every command needs to build an
// orchestrator: the resolved client config, an authenticated or
// unauthenticated orchestrator.Orchestrator, and the project root to
// operate against (the current working directory).
type commandEnv struct {
	Root   string
	Config *config.Config
	Orch   *orchestrator.Orchestrator
}

// newCommandEnv resolves config.json, overrides its registry with the
// --registry flag when set, and builds an
// Orchestrator rooted at the current working directory.
func newCommandEnv(cmd *cobra.Command) (*commandEnv, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, errors.NewConfigError("failed to resolve current directory", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.NewConfigError("failed to resolve home directory", err)
	}

	store, err := config.NewConfigStore()
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	cfg, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if override := viper.GetString("registry"); override != "" {
		cfg.Registry = override
	}

	configDir, err := tankConfigDir(home)
	if err != nil {
		return nil, err
	}

	tctx := tankctx.New(configDir, home, cfg.Registry, cfg.Token)
	orch, err := orchestrator.New(tctx)
	if err != nil {
		return nil, err
	}

	_ = cmd // reserved for future per-command flag plumbing (e.g. --timeout)
	return &commandEnv{Root: root, Config: cfg, Orch: orch}, nil
}

// newTokenStore returns the default auth.TokenStore, used by login/logout
// to persist a bearer token outside of config.json when the OS keychain
// is available.
func newTokenStore() (auth.TokenStore, error) {
	return auth.NewTokenStore()
}

// tankConfigDir resolves $HOME/.tank, creating it if absent so later
// writes (config.json, the global lockfile, links.json) never race a
// missing directory.
func tankConfigDir(home string) (string, error) {
	dir := home + string(os.PathSeparator) + ".tank"
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", errors.NewConfigError("failed to create tank config directory", err)
	}
	return dir, nil
}
