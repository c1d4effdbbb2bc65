// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/errors"
	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/registryclient"
)

func newRegistryServer(t *testing.T, tarballURL, integrity string, permissions *registryclient.Permissions) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/skills/pdf-reader/versions":
			_ = json.NewEncoder(w).Encode([]registryclient.VersionSummary{
				{Version: "1.0.0", Integrity: integrity, AuditStatus: "completed", PublishedAt: "2025-01-01T00:00:00Z"},
			})
		case "/api/v1/skills/pdf-reader/1.0.0":
			_ = json.NewEncoder(w).Encode(registryclient.VersionDetail{
				VersionSummary: registryclient.VersionSummary{Version: "1.0.0", Integrity: integrity, AuditStatus: "completed"},
				DownloadURL:    tarballURL,
				Permissions:    permissions,
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestInstall_FreshInstall(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	tarball := makeTarball(t, sampleManifestJSON("pdf-reader", "1.0.0"))
	downloadServer := newDownloadServer(t, tarball)
	registryServer := newRegistryServer(t, downloadServer.URL, download.Integrity(tarball), nil)

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	result, err := orch.Install(context.Background(), root, "pdf-reader", "^1.0.0", false)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", result.Version)
	assert.False(t, result.AlreadyInstalled)
	assert.Contains(t, result.Warnings, "missing-budget")

	lf, err := lockfile.Load(root)
	require.NoError(t, err)
	entry, ok := lf.Get("pdf-reader", "1.0.0")
	require.True(t, ok)
	assert.Equal(t, download.Integrity(tarball), entry.Integrity)

	extractDir := download.TargetDir(root, "pdf-reader")
	_, statErr := os.Stat(filepath.Join(extractDir, "SKILL.md"))
	assert.NoError(t, statErr)
}

func TestInstall_AlreadyInstalledShortCircuits(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	tarball := makeTarball(t, sampleManifestJSON("pdf-reader", "1.0.0"))
	downloadServer := newDownloadServer(t, tarball)
	registryServer := newRegistryServer(t, downloadServer.URL, download.Integrity(tarball), nil)

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	_, err := orch.Install(context.Background(), root, "pdf-reader", "^1.0.0", false)
	require.NoError(t, err)

	result, err := orch.Install(context.Background(), root, "pdf-reader", "^1.0.0", false)
	require.NoError(t, err)
	assert.True(t, result.AlreadyInstalled)
}

func TestInstall_PermissionViolation(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".tank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tank", "budget.json"),
		[]byte(`{"network":{"outbound":["*.example.com"]}}`), 0o644))

	tarball := makeTarball(t, sampleManifestJSON("pdf-reader", "1.0.0"))
	downloadServer := newDownloadServer(t, tarball)
	permissions := &registryclient.Permissions{Network: &registryclient.NetworkPermissions{Outbound: []string{"evil.example.org"}}}
	registryServer := newRegistryServer(t, downloadServer.URL, download.Integrity(tarball), permissions)

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	_, err := orch.Install(context.Background(), root, "pdf-reader", "^1.0.0", false)
	require.Error(t, err)
	assert.True(t, errors.IsPermissionViolation(err))
}
