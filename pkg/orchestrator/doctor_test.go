// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tankpkg/tank/pkg/download"
	"github.com/tankpkg/tank/pkg/linkmanager"
)

func TestDoctor_ReportsInstalledSkillsAndAgents(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	tarball := makeTarball(t, sampleManifestJSON("pdf-reader", "1.0.0"))
	downloadServer := newDownloadServer(t, tarball)
	registryServer := newRegistryServer(t, downloadServer.URL, download.Integrity(tarball), nil)

	orch := NewWithClient(newTestContext(filepath.Join(home, ".tank"), home, registryServer.URL), registryServer.Client())
	_, err := orch.Install(context.Background(), root, "pdf-reader", "^1.0.0", false)
	require.NoError(t, err)

	report, err := orch.Doctor(root)
	require.NoError(t, err)
	assert.Contains(t, report.InstalledAgents, "claude")
	require.Len(t, report.LocalSkills, 1)
	assert.Equal(t, "pdf-reader", report.LocalSkills[0].Name)
	assert.True(t, report.LocalSkills[0].Linked)
	assert.Empty(t, report.Violations)
}

func TestDoctor_DetectsDevLinkIndependentlyOfLockfile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	home := t.TempDir()
	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# Dev Skill\n"), 0o644))

	mgr := linkmanager.New(root, home)
	require.NoError(t, mgr.Link("dev-skill", "0.0.0", linkmanager.SourceDev, sourceDir))

	orch := NewWithClient(newTestContext(filepath.Join(home, ".tank"), home, "https://registry.example.com"), nil)
	report, err := orch.Doctor(root)
	require.NoError(t, err)

	require.Len(t, report.DevLinks, 1)
	assert.Equal(t, "dev-skill", report.DevLinks[0].Name)
	assert.Empty(t, report.LocalSkills)
}

func TestDoctor_ReportsDanglingLinkViolation(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	home := t.TempDir()
	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# Dev Skill\n"), 0o644))

	mgr := linkmanager.New(root, home)
	require.NoError(t, mgr.Link("dev-skill", "0.0.0", linkmanager.SourceDev, sourceDir))
	require.NoError(t, os.RemoveAll(linkmanager.WrapperDir(root, linkmanager.FlatName("dev-skill"))))

	orch := NewWithClient(newTestContext(filepath.Join(home, ".tank"), home, "https://registry.example.com"), nil)
	report, err := orch.Doctor(root)
	require.NoError(t, err)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "dev-skill", report.Violations[0].Skill)
}
