// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
)

// FallbackStore tries a primary TokenStore first and falls back to a
// secondary one when the primary is unusable, rather than when a lookup
// simply comes back empty: an ErrNotFound from the primary is returned as
// -is, since "no token stored" is a valid answer, not a failure to fall
// back from. Only an unexpected error (keychain daemon unreachable, file
// permission denied) triggers the fallback.
type FallbackStore struct {
	primary   TokenStore
	secondary TokenStore
}

// NewFallbackStore returns a FallbackStore.
func NewFallbackStore(primary, secondary TokenStore) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary}
}

// SetToken implements TokenStore.
func (s *FallbackStore) SetToken(ctx context.Context, registry, token string) error {
	err := s.primary.SetToken(ctx, registry, token)
	if err == nil {
		return nil
	}
	return s.secondary.SetToken(ctx, registry, token)
}

// GetToken implements TokenStore.
func (s *FallbackStore) GetToken(ctx context.Context, registry string) (string, error) {
	token, err := s.primary.GetToken(ctx, registry)
	if err == nil || errors.Is(err, ErrNotFound) {
		return token, err
	}
	return s.secondary.GetToken(ctx, registry)
}

// DeleteToken implements TokenStore. It deletes from both stores, since a
// token may have been written to either depending on keychain availability
// at the time, and returns the first error encountered, if any.
func (s *FallbackStore) DeleteToken(ctx context.Context, registry string) error {
	primaryErr := s.primary.DeleteToken(ctx, registry)
	secondaryErr := s.secondary.DeleteToken(ctx, registry)
	if primaryErr != nil {
		return primaryErr
	}
	return secondaryErr
}

// NewTokenStore returns the default TokenStore: keyring-backed, falling
// back to a file under "$HOME/.tank/credentials.json" when no OS keychain
// is available.
func NewTokenStore() (TokenStore, error) {
	keyringStore := NewKeyringStore()
	fileStore, err := NewFileStore("")
	if err != nil {
		return nil, err
	}
	if !IsAvailable() {
		return fileStore, nil
	}
	return NewFallbackStore(keyringStore, fileStore), nil
}
