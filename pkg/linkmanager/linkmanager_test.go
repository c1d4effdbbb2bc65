package linkmanager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_DevSource_CreatesStubAndAgentSymlinks(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".cursor"), 0o755))

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# stub source\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "helper.py"), []byte("print(1)\n"), 0o644))

	mgr := New(home, home)
	require.NoError(t, mgr.Link("@tank/x", "1.0.0", SourceDev, sourceDir))

	wrapperDir := WrapperDir(home, "tank--x")
	data, err := os.ReadFile(filepath.Join(wrapperDir, "SKILL.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: @tank/x")
	assert.Contains(t, string(data), "version: 1.0.0")

	_, err = os.Lstat(filepath.Join(wrapperDir, "helper.py"))
	require.NoError(t, err)

	claudeLink := filepath.Join(home, ".claude", "skills", "tank--x")
	target, err := os.Readlink(claudeLink)
	require.NoError(t, err)
	assert.Equal(t, wrapperDir, target)

	cursorLink := filepath.Join(home, ".cursor", "skills", "tank--x")
	_, err = os.Lstat(cursorLink)
	require.NoError(t, err)

	manifest, err := Load(home)
	require.NoError(t, err)
	entry, ok := manifest.Links["@tank/x"]
	require.True(t, ok)
	assert.Equal(t, SourceDev, entry.Source)
	assert.Len(t, entry.AgentLinks, 2)
}

func TestLink_SkipsAgentsWithoutConfigDir(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# x\n"), 0o644))

	mgr := New(home, home)
	require.NoError(t, mgr.Link("pdf-reader", "1.0.0", SourceDev, sourceDir))

	manifest, err := Load(home)
	require.NoError(t, err)
	assert.Len(t, manifest.Links["pdf-reader"].AgentLinks, 1)
}

func TestUnlink_RemovesSymlinksWrapperAndEntry(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "data.txt"), []byte("keep me\n"), 0o644))

	mgr := New(home, home)
	require.NoError(t, mgr.Link("@tank/x", "1.0.0", SourceDev, sourceDir))

	result, err := mgr.Unlink("@tank/x")
	require.NoError(t, err)
	assert.Equal(t, 0, result.FailedSymlinks)

	_, err = os.Lstat(filepath.Join(home, ".claude", "skills", "tank--x"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Lstat(WrapperDir(home, "tank--x"))
	assert.True(t, os.IsNotExist(err))

	manifest, err := Load(home)
	require.NoError(t, err)
	_, ok := manifest.Links["@tank/x"]
	assert.False(t, ok)

	data, err := os.ReadFile(filepath.Join(sourceDir, "data.txt"))
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(data))
}

func TestLink_LocalSource_WrapperIsSymlinkToSourceDir(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	projectDir := t.TempDir()
	extractedDir := filepath.Join(projectDir, ".tank", "skills", "pdf-reader")
	require.NoError(t, os.MkdirAll(extractedDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(extractedDir, "SKILL.md"), []byte("# pdf\n"), 0o644))

	mgr := New(projectDir, home)
	require.NoError(t, mgr.Link("pdf-reader", "1.0.0", SourceLocal, extractedDir))

	wrapperDir := WrapperDir(projectDir, "pdf-reader")
	target, err := os.Readlink(wrapperDir)
	require.NoError(t, err)
	assert.Equal(t, extractedDir, target)
}

func TestCheck_DetectsDanglingSymlink(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# x\n"), 0o644))

	mgr := New(home, home)
	require.NoError(t, mgr.Link("@tank/x", "1.0.0", SourceDev, sourceDir))

	claudeLink := filepath.Join(home, ".claude", "skills", "tank--x")
	require.NoError(t, os.Remove(claudeLink))

	violations, err := Check(home)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, "@tank/x", violations[0].Skill)
}

func TestCheck_NoViolationsWhenConsistent(t *testing.T) {
	t.Parallel()
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".claude"), 0o755))

	sourceDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(sourceDir, "SKILL.md"), []byte("# x\n"), 0o644))

	mgr := New(home, home)
	require.NoError(t, mgr.Link("@tank/x", "1.0.0", SourceDev, sourceDir))

	violations, err := Check(home)
	require.NoError(t, err)
	assert.Empty(t, violations)
}
