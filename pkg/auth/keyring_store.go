// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore stores tokens in the OS-native credential store (macOS
// Keychain, Windows Credential Manager, Linux Secret Service / D-Bus).
type KeyringStore struct{}

// NewKeyringStore returns a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// SetToken implements TokenStore.
func (*KeyringStore) SetToken(_ context.Context, registry, token string) error {
	if err := keyring.Set(serviceName, registry, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// GetToken implements TokenStore.
func (*KeyringStore) GetToken(_ context.Context, registry string) (string, error) {
	token, err := keyring.Get(serviceName, registry)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read token from keyring: %w", err)
	}
	return token, nil
}

// DeleteToken implements TokenStore.
func (*KeyringStore) DeleteToken(_ context.Context, registry string) error {
	if err := keyring.Delete(serviceName, registry); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether a usable OS keychain backend is present, by
// probing it with a throwaway write/delete. Used by NewTokenStore to decide
// whether to fall back to FileStore.
func IsAvailable() bool {
	const probeKey = "__tank_keyring_probe__"
	if err := keyring.Set(serviceName, probeKey, "probe"); err != nil {
		return false
	}
	_ = keyring.Delete(serviceName, probeKey)
	return true
}
