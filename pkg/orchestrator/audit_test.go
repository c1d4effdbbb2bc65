// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankpkg/tank/pkg/lockfile"
	"github.com/tankpkg/tank/pkg/registryclient"
)

func TestAudit_SingleSkillVerdict(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	score := 0.92
	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/api/v1/skills/pdf-reader/1.0.0" {
			_ = json.NewEncoder(w).Encode(registryclient.VersionDetail{
				VersionSummary: registryclient.VersionSummary{Version: "1.0.0", AuditScore: &score, AuditStatus: "completed"},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(registryServer.Close)

	lf := lockfile.New()
	lf.Set("pdf-reader", "1.0.0", lockfile.Entry{Resolved: "https://old.example.com", Integrity: "sha512-x"})
	require.NoError(t, lockfile.Save(root, lf))

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	results, err := orch.Audit(context.Background(), root, "pdf-reader")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, VerdictPassed, results[0].Verdict)
	assert.Equal(t, 0.92, *results[0].AuditScore)
}

func TestAudit_FlaggedVerdict(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(registryclient.VersionDetail{
			VersionSummary: registryclient.VersionSummary{Version: "1.0.0", AuditStatus: "flagged"},
		})
	}))
	t.Cleanup(registryServer.Close)

	lf := lockfile.New()
	lf.Set("pdf-reader", "1.0.0", lockfile.Entry{Resolved: "https://old.example.com", Integrity: "sha512-x"})
	require.NoError(t, lockfile.Save(root, lf))

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	results, err := orch.Audit(context.Background(), root, "pdf-reader")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, VerdictFlagged, results[0].Verdict)
}

func TestAudit_AllSkillsWhenNameEmpty(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	registryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(registryclient.VersionDetail{
			VersionSummary: registryclient.VersionSummary{Version: "1.0.0", AuditStatus: "completed"},
		})
	}))
	t.Cleanup(registryServer.Close)

	lf := lockfile.New()
	lf.Set("pdf-reader", "1.0.0", lockfile.Entry{Resolved: "https://old.example.com", Integrity: "sha512-x"})
	lf.Set("ocr-tool", "2.0.0", lockfile.Entry{Resolved: "https://old.example.com", Integrity: "sha512-y"})
	require.NoError(t, lockfile.Save(root, lf))

	orch := NewWithClient(newTestContext(filepath.Join(root, ".tank-home"), root, registryServer.URL), registryServer.Client())

	results, err := orch.Audit(context.Background(), root, "")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
