// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/filelock"
	"github.com/tankpkg/tank/pkg/fileutils"
)

// Store loads and saves the client configuration.
type Store interface {
	Load(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
}

// getConfigPath resolves the default config.json location. It is a package
// variable so tests can redirect it without touching $HOME.
var getConfigPath = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("failed to resolve home directory", err)
	}
	return filepath.Join(home, ".tank", "config.json"), nil
}

// LocalStore reads and writes config.json on the local filesystem, guarded
// by an OS-level file lock so two processes (e.g. a background doctor check
// and a foreground login) cannot interleave writes.
type LocalStore struct {
	path string
}

// NewLocalStore returns a LocalStore rooted at path. An empty path defers
// resolution to getConfigPath on first use.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// NewConfigStore returns the default Store implementation: a LocalStore at
// the resolved default config path.
func NewConfigStore() (Store, error) {
	return NewLocalStore(""), nil
}

func (s *LocalStore) resolvePath() (string, error) {
	if s.path != "" {
		return s.path, nil
	}
	return getConfigPath()
}

// Load reads config.json, returning a default Config (pointing at the
// public registry, no stored credentials) if the file does not yet exist.
func (s *LocalStore) Load(_ context.Context) (*Config, error) {
	path, err := s.resolvePath()
	if err != nil {
		return nil, err
	}

	lockPath := path + ".lock"
	lock := filelock.NewTrackedLock(lockPath)
	if err := lock.Lock(); err != nil {
		return nil, errors.NewConfigError("failed to acquire config lock", err)
	}
	defer filelock.ReleaseTrackedLock(lockPath, lock)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}
	if cfg.Registry == "" {
		cfg.Registry = DefaultRegistry
	}
	return &cfg, nil
}

// Save atomically writes cfg to config.json with 0600 permissions,
// creating the parent directory if needed.
func (s *LocalStore) Save(_ context.Context, cfg *Config) error {
	path, err := s.resolvePath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.NewConfigError("failed to create config directory", err)
	}

	lockPath := path + ".lock"
	lock := filelock.NewTrackedLock(lockPath)
	if err := lock.Lock(); err != nil {
		return errors.NewConfigError("failed to acquire config lock", err)
	}
	defer filelock.ReleaseTrackedLock(lockPath, lock)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.NewConfigError("failed to marshal config", err)
	}
	if err := fileutils.AtomicWriteFile(path, data, 0o600); err != nil {
		return errors.NewConfigError("failed to write config file", err)
	}
	return nil
}
