// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package networking provides the shared HTTP plumbing used by the registry
// client and the auth package: a generic JSON fetch helper with typed error
// mapping, and small URL classification utilities.
package networking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Result wraps a decoded JSON response body together with the response
// headers, so callers that need a header (pagination cursors, rate-limit
// counters) do not have to re-issue the request.
type Result[T any] struct {
	Data    T
	Headers http.Header
}

// ErrorHandler inspects a non-2xx response and its body, returning a
// custom error to use instead of the default *HTTPError, or nil to fall
// back to the default.
type ErrorHandler func(resp *http.Response, body []byte) error

type fetchOptions struct {
	method       string
	headers      map[string]string
	body         io.Reader
	errorHandler ErrorHandler
}

// Option configures a FetchJSON/FetchJSONWithForm call.
type Option func(*fetchOptions)

// WithMethod sets the HTTP method. Defaults to GET.
func WithMethod(method string) Option {
	return func(o *fetchOptions) { o.method = method }
}

// WithHeader sets a request header, overriding any default (including the
// Accept header FetchJSON sets by default).
func WithHeader(key, value string) Option {
	return func(o *fetchOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithBody sets the request body. Defaults to none.
func WithBody(body io.Reader) Option {
	return func(o *fetchOptions) { o.body = body }
}

// WithErrorHandler installs a custom handler invoked on non-2xx responses
// before falling back to the default *HTTPError.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(o *fetchOptions) { o.errorHandler = handler }
}

// FetchJSON issues an HTTP request to rawURL and decodes a JSON response
// body into T. It defaults to GET with an "Accept: application/json"
// header, rejects any non-2xx response (mapped through the optional error
// handler, else a *HTTPError that never includes the response body), and
// validates the response Content-Type is application/json before decoding.
func FetchJSON[T any](ctx context.Context, client *http.Client, rawURL string, opts ...Option) (*Result[T], error) {
	options := fetchOptions{method: http.MethodGet}
	for _, opt := range opts {
		opt(&options)
	}

	req, err := http.NewRequestWithContext(ctx, options.method, rawURL, options.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, v := range options.headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if options.errorHandler != nil {
			if handlerErr := options.errorHandler(resp, body); handlerErr != nil {
				return nil, handlerErr
			}
		}
		return nil, NewHTTPError(resp.StatusCode, rawURL, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSONContentType(contentType) {
		return nil, fmt.Errorf("unexpected content type %q, expected application/json", contentType)
	}

	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return &Result[T]{Data: data, Headers: resp.Header}, nil
}

// FetchJSONWithForm issues a POST with an application/x-www-form-urlencoded
// body built from form, decoding the JSON response into T.
func FetchJSONWithForm[T any](
	ctx context.Context, client *http.Client, rawURL string, form url.Values, opts ...Option,
) (*Result[T], error) {
	allOpts := append([]Option{
		WithMethod(http.MethodPost),
		WithHeader("Content-Type", "application/x-www-form-urlencoded"),
		WithBody(bytes.NewReader([]byte(form.Encode()))),
	}, opts...)
	return FetchJSON[T](ctx, client, rawURL, allOpts...)
}

// isJSONContentType reports whether contentType names the JSON media type,
// ignoring case and any parameters (e.g. "; charset=utf-8").
func isJSONContentType(contentType string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(base), "application/json")
}
