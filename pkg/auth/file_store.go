// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tankpkg/tank/pkg/filelock"
	"github.com/tankpkg/tank/pkg/fileutils"
)

// FileStore is the fallback TokenStore used when no OS keychain is
// available. Tokens are stored in a single JSON file keyed by registry
// URL, written atomically and guarded by an advisory file lock, with
// owner-only permissions since the file holds bearer tokens in plaintext.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore rooted at path. If path is empty, the
// default "$HOME/.tank/credentials.json" is used.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		resolved, err := defaultCredentialsPath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	return &FileStore{path: path}, nil
}

func defaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".tank", "credentials.json"), nil
}

func (s *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	var tokens map[string]string
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	if tokens == nil {
		tokens = map[string]string{}
	}
	return tokens, nil
}

func (s *FileStore) save(tokens map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := fileutils.AtomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// SetToken implements TokenStore.
func (s *FileStore) SetToken(_ context.Context, registry, token string) error {
	lock := filelock.NewTrackedLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire credentials lock: %w", err)
	}
	defer filelock.ReleaseTrackedLock(s.path+".lock", lock)

	tokens, err := s.load()
	if err != nil {
		return err
	}
	tokens[registry] = token
	return s.save(tokens)
}

// GetToken implements TokenStore.
func (s *FileStore) GetToken(_ context.Context, registry string) (string, error) {
	lock := filelock.NewTrackedLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("failed to acquire credentials lock: %w", err)
	}
	defer filelock.ReleaseTrackedLock(s.path+".lock", lock)

	tokens, err := s.load()
	if err != nil {
		return "", err
	}
	token, ok := tokens[registry]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

// DeleteToken implements TokenStore.
func (s *FileStore) DeleteToken(_ context.Context, registry string) error {
	lock := filelock.NewTrackedLock(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire credentials lock: %w", err)
	}
	defer filelock.ReleaseTrackedLock(s.path+".lock", lock)

	tokens, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := tokens[registry]; !ok {
		return nil
	}
	delete(tokens, registry)
	return s.save(tokens)
}
