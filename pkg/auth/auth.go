// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package auth stores and retrieves the bearer token `tank login` obtains,
// preferring the OS keychain and falling back to a local file when no
// keychain is available (headless CI runners, minimal containers).
package auth

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no token is stored for a registry.
var ErrNotFound = errors.New("no token stored for registry")

// TokenStore persists a bearer token per registry URL.
type TokenStore interface {
	// SetToken stores token for registry, overwriting any existing value.
	SetToken(ctx context.Context, registry, token string) error
	// GetToken returns the token stored for registry, or ErrNotFound.
	GetToken(ctx context.Context, registry string) (string, error)
	// DeleteToken removes the token stored for registry. Deleting a
	// registry with no stored token is not an error.
	DeleteToken(ctx context.Context, registry string) error
}

// serviceName is the keychain service name / file store namespace Tank's
// tokens are stored under.
const serviceName = "tank"
