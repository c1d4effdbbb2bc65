// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tankpkg/tank/pkg/networking"
)

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response to a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// WhoamiResponse identifies the user a bearer token belongs to.
type WhoamiResponse struct {
	User string `json:"user"`
}

// Login exchanges a username and password for a bearer token. The
// returned token is not stored on c; the caller persists it via
// pkg/config and pkg/auth.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	rawURL := c.baseURL + "/api/v1/auth/login"
	opts := c.authHeader(
		networking.WithMethod(http.MethodPost),
		networking.WithHeader("Content-Type", "application/json"),
		networking.WithBody(bytes.NewReader(body)),
		networking.WithErrorHandler(errorHandler),
	)
	result, err := networking.FetchJSON[LoginResponse](ctx, c.http, rawURL, opts...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}

// Whoami returns the user identified by c's bearer token.
func (c *Client) Whoami(ctx context.Context) (*WhoamiResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rawURL := c.baseURL + "/api/v1/auth/whoami"
	result, err := networking.FetchJSON[WhoamiResponse](ctx, c.http, rawURL,
		c.authHeader(networking.WithErrorHandler(errorHandler))...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}
