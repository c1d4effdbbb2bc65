// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package networking

import (
	"net/url"
	"strings"
)

// IsURL reports whether raw parses as an http(s) URL with a host.
func IsURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsRemoteURL reports whether raw is a well-formed http(s) URL whose host
// is not localhost or a loopback address. Private and link-local addresses
// are still considered "remote" (they name a different machine reachable
// over a network interface), only loopback is excluded.
func IsRemoteURL(raw string) bool {
	if !IsURL(raw) {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return !IsLocalhost(u.Host)
}

// IsLocalhost reports whether hostport names localhost or a loopback
// address, with or without a port. Matching is a simple prefix check
// against "localhost", "127.0.0.1", and "[::1]" (case-sensitive), so a
// malformed port suffix does not change the verdict.
func IsLocalhost(hostport string) bool {
	switch {
	case hostport == "localhost" || strings.HasPrefix(hostport, "localhost:"):
		return true
	case hostport == "127.0.0.1" || strings.HasPrefix(hostport, "127.0.0.1:"):
		return true
	case hostport == "[::1]" || strings.HasPrefix(hostport, "[::1]:"):
		return true
	default:
		return false
	}
}
