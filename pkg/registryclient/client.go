// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package registryclient is a typed HTTP client for the Tank skill
// registry's public API: listing versions, fetching metadata, searching,
// and the two-phase publish handshake.
package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/networking"
	"github.com/tankpkg/tank/pkg/versions"
)

// publishConfirmMaxAttempts bounds the retry loop PublishConfirm runs on
// transient failures. Every other operation on this client surfaces a
// network or server error straight to the caller, unretried; publishConfirm
// is the one step where the registry itself may still be finishing
// asynchronous audit work when first called, so a short bounded retry
// absorbs that without making every read operation silently slow.
const publishConfirmMaxAttempts = 5

// MetadataTimeout bounds every metadata call this client makes (listVersions,
// getVersion, search, info, publishInit, publishConfirm) — all lightweight
// JSON round trips, never the skill tarball download itself.
const MetadataTimeout = 30 * time.Second

// VersionSummary is one entry in a listVersions response.
type VersionSummary struct {
	Version     string   `json:"version"`
	Integrity   string   `json:"integrity"`
	AuditScore  *float64 `json:"auditScore"`
	AuditStatus string   `json:"auditStatus"`
	PublishedAt string   `json:"publishedAt"`
}

// VersionDetail is a getVersion response: a VersionSummary plus the
// download URL and the published manifest's declared permissions, both
// only present on the detail endpoint.
type VersionDetail struct {
	VersionSummary
	DownloadURL string       `json:"downloadUrl"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

// Permissions mirrors manifest.Permissions for the registry's wire
// format, kept independent of pkg/manifest so this package's JSON shape
// is defined by the registry's API contract rather than a local struct.
type Permissions struct {
	Network    *NetworkPermissions    `json:"network,omitempty"`
	Filesystem *FilesystemPermissions `json:"filesystem,omitempty"`
	Subprocess bool                   `json:"subprocess,omitempty"`
}

// NetworkPermissions holds outbound host glob patterns.
type NetworkPermissions struct {
	Outbound []string `json:"outbound,omitempty"`
}

// FilesystemPermissions holds path glob patterns.
type FilesystemPermissions struct {
	Read  []string `json:"read,omitempty"`
	Write []string `json:"write,omitempty"`
}

// SearchResult is one entry in a search listing.
type SearchResult struct {
	Name        string `json:"name"`
	Description   string `json:"description"`
	LatestVersion string `json:"latestVersion"`
}

// SearchResponse wraps a search listing.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Info is an info summary for a single skill.
type Info struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RepositoryURL string `json:"repositoryUrl"`
	LatestVersion string `json:"latestVersion"`
}

// PublishInitRequest is the body of a publishInit call.
type PublishInitRequest struct {
	Manifest json.RawMessage `json:"manifest"`
}

// PublishInitResponse is the response to publishInit.
type PublishInitResponse struct {
	UploadURL string `json:"uploadUrl"`
	SkillID   string `json:"skillId"`
	VersionID string `json:"versionId"`
}

// PublishConfirmRequest is the body of a publishConfirm call.
type PublishConfirmRequest struct {
	VersionID   string `json:"versionId"`
	Integrity   string `json:"integrity"`
	FileCount   int    `json:"fileCount"`
	TarballSize int64  `json:"tarballSize"`
	Readme      string `json:"readme,omitempty"`
}

// PublishConfirmResponse is the response to publishConfirm.
type PublishConfirmResponse struct {
	Version     string `json:"version"`
	AuditStatus string `json:"auditStatus"`
}

// Client talks to a single Tank registry over HTTPS.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New builds a Client against baseURL, authenticating with token if
// non-empty (public read operations work without one).
func New(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// HTTPClient returns the underlying *http.Client, for callers (the
// downloader) that need to fetch a non-JSON body this client's own
// methods don't cover.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// userAgent returns the "tank-cli/<version>" header value sent on every
// request.
func userAgent() string {
	return "tank-cli/" + versions.GetVersionInfo().Version
}

// encodeName URL-encodes a skill name for use as a single path segment:
// "@" becomes "%40" and "/" becomes "%2F", so a scoped name like
// "@acme/pdf-reader" survives as one segment rather than being
// misinterpreted as two.
func encodeName(name string) string {
	encoded := url.PathEscape(name)
	encoded = strings.ReplaceAll(encoded, "@", "%40")
	return encoded
}

func (c *Client) authHeader(opts ...networking.Option) []networking.Option {
	opts = append(opts, networking.WithHeader("User-Agent", userAgent()))
	if c.token != "" {
		opts = append(opts, networking.WithHeader("Authorization", "Bearer "+c.token))
	}
	return opts
}

// errorHandler maps a non-2xx response's status code to Tank's typed
// registry errors.
func errorHandler(resp *http.Response, _ []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return errors.NewRegistryUnauthorizedError("registry rejected the request: unauthorized", nil)
	case http.StatusForbidden:
		return errors.NewRegistryForbiddenError("registry rejected the request: forbidden", nil)
	case http.StatusNotFound:
		return errors.NewRegistryNotFoundError("registry resource not found", nil)
	case http.StatusConflict:
		return errors.NewRegistryConflictError("registry reported a conflict", nil)
	}
	if resp.StatusCode >= 500 {
		return errors.NewRegistryServerError(fmt.Sprintf("registry server error (HTTP %d)", resp.StatusCode), nil)
	}
	return nil
}

// wrapTransportError maps a transport-level failure (DNS, connection
// refused, TLS handshake, timeout) — anything that never reached
// errorHandler because no HTTP response came back — to a NetworkError.
// errorHandler-produced typed errors pass through unchanged.
func wrapTransportError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsRegistryUnauthorized(err) || errors.IsRegistryForbidden(err) ||
		errors.IsRegistryNotFound(err) || errors.IsRegistryConflict(err) || errors.IsRegistryServer(err) {
		return err
	}
	if networking.IsHTTPError(err, 0) {
		return err
	}
	return errors.NewNetworkError("registry request failed", err)
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, MetadataTimeout)
}

// ListVersions fetches the full version history of name.
func (c *Client) ListVersions(ctx context.Context, name string) ([]VersionSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rawURL := fmt.Sprintf("%s/api/v1/skills/%s/versions", c.baseURL, encodeName(name))
	result, err := networking.FetchJSON[[]VersionSummary](ctx, c.http, rawURL,
		c.authHeader(networking.WithErrorHandler(errorHandler))...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return result.Data, nil
}

// GetVersion fetches full metadata (including the download URL) for a
// single version.
func (c *Client) GetVersion(ctx context.Context, name, version string) (*VersionDetail, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rawURL := fmt.Sprintf("%s/api/v1/skills/%s/%s", c.baseURL, encodeName(name), url.PathEscape(version))
	result, err := networking.FetchJSON[VersionDetail](ctx, c.http, rawURL,
		c.authHeader(networking.WithErrorHandler(errorHandler))...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}

// Search runs a free-text query against the registry's skill index.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rawURL := fmt.Sprintf("%s/api/v1/skills/search?q=%s", c.baseURL, url.QueryEscape(query))
	result, err := networking.FetchJSON[SearchResponse](ctx, c.http, rawURL,
		c.authHeader(networking.WithErrorHandler(errorHandler))...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}

// Info fetches a single skill's summary.
func (c *Client) Info(ctx context.Context, name string) (*Info, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	rawURL := fmt.Sprintf("%s/api/v1/skills/%s", c.baseURL, encodeName(name))
	result, err := networking.FetchJSON[Info](ctx, c.http, rawURL,
		c.authHeader(networking.WithErrorHandler(errorHandler))...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}

// PublishInit begins a publish: the registry allocates a skill/version ID
// and returns a pre-signed upload URL for the tarball.
func (c *Client) PublishInit(ctx context.Context, manifest []byte) (*PublishInitResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(PublishInitRequest{Manifest: manifest})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal publishInit request: %w", err)
	}

	rawURL := c.baseURL + "/api/v1/skills"
	opts := c.authHeader(
		networking.WithMethod(http.MethodPost),
		networking.WithHeader("Content-Type", "application/json"),
		networking.WithBody(bytes.NewReader(body)),
		networking.WithErrorHandler(errorHandler),
	)
	result, err := networking.FetchJSON[PublishInitResponse](ctx, c.http, rawURL, opts...)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	return &result.Data, nil
}

// PublishConfirm completes a publish after the tarball has been uploaded
// to the URL PublishInit returned. The registry may still be finishing
// server-side audit intake when this is first called, so transient 5xx
// and network failures are retried a bounded number of times with
// exponential backoff; a 4xx response (bad request, conflict, forbidden)
// is never retried.
func (c *Client) PublishConfirm(ctx context.Context, req PublishConfirmRequest) (*PublishConfirmResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal publishConfirm request: %w", err)
	}

	rawURL := c.baseURL + "/api/v1/skills/confirm"

	operation := func() (*PublishConfirmResponse, error) {
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()

		opts := c.authHeader(
			networking.WithMethod(http.MethodPost),
			networking.WithHeader("Content-Type", "application/json"),
			networking.WithBody(bytes.NewReader(body)),
			networking.WithErrorHandler(errorHandler),
		)
		result, err := networking.FetchJSON[PublishConfirmResponse](callCtx, c.http, rawURL, opts...)
		if err != nil {
			wrapped := wrapTransportError(err)
			if errors.IsRegistryServer(wrapped) || errors.IsNetwork(wrapped) {
				return nil, wrapped
			}
			// Non-transient failures are permanent from backoff's perspective.
			return nil, backoff.Permanent(wrapped)
		}
		return &result.Data, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithMaxTries(publishConfirmMaxAttempts),
		backoff.WithBackOff(backoff.NewExponentialBackOff()))
}
