// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tankpkg/tank/pkg/tankctx"
)

// newTestContext returns a tankctx.Context rooted at configDir/home, with a
// fixed Now for deterministic timestamps in tests.
func newTestContext(configDir, home, registry string) *tankctx.Context {
	ctx := tankctx.New(configDir, home, registry, "test-token")
	ctx.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return ctx
}

// makeTarball builds a gzip-compressed tar archive containing skills.json
// and SKILL.md, suitable as a fake registry download payload or a Pack
// input directory's packed equivalent.
func makeTarball(t *testing.T, manifestJSON string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	files := map[string]string{
		"skills.json": manifestJSON,
		"SKILL.md":    "# Test Skill\n",
	}
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write tar content: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// newDownloadServer serves tarball for every request path, letting
// tests stand in for a skill's registry download URL.
func newDownloadServer(t *testing.T, tarball []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/gzip")
		_, _ = w.Write(tarball)
	}))
	t.Cleanup(server.Close)
	return server
}

func sampleManifestJSON(name, version string) string {
	return fmt.Sprintf(`{"name":%q,"version":%q,"description":"test skill"}`, name, version)
}
