// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package download fetches a skill's tarball from its registry download
// URL, verifies its integrity, and safely extracts it into the project's
// .tank/skills tree.
package download

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/tankpkg/tank/pkg/errors"
)

// Fetch streams downloadURL's body fully into memory and verifies its
// sha512 digest against expectedIntegrity (an SRI-style "sha512-<base64>"
// string). A mismatch returns a fatal *errors.Error and the bytes are
// never returned to the caller, so they cannot be written to disk by
// mistake.
func Fetch(ctx context.Context, client *http.Client, downloadURL, expectedIntegrity string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, errors.NewNetworkError("failed to build download request", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.NewNetworkError("failed to download skill tarball", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewNetworkError(fmt.Sprintf("download failed with status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError("failed to read download body", err)
	}

	actual := Integrity(data)
	if expectedIntegrity != "" && actual != expectedIntegrity {
		return nil, errors.NewIntegrityMismatchError(
			fmt.Sprintf("expected %s, got %s", expectedIntegrity, actual), nil)
	}

	return data, nil
}

// Integrity computes the SRI-style "sha512-<base64>" digest of data.
func Integrity(data []byte) string {
	sum := sha512.Sum512(data)
	return "sha512-" + base64.StdEncoding.EncodeToString(sum[:])
}
