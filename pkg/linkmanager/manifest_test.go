package linkmanager

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsEmpty(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	m, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, Version, m.Version)
	assert.Empty(t, m.Links)
}

func TestLoad_MalformedJSONIsFatal(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".tank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tank", FileName), []byte("{bad"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	m := New()
	m.Links["pdf-reader"] = LinkEntry{
		Source:      SourceLocal,
		SourceDir:   "/home/user/project",
		InstalledAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		AgentLinks:  map[string]string{"claude": "/home/user/.claude/skills/pdf-reader"},
	}
	require.NoError(t, Save(root, m))

	loaded, err := Load(root)
	require.NoError(t, err)
	entry, ok := loaded.Links["pdf-reader"]
	require.True(t, ok)
	assert.Equal(t, SourceLocal, entry.Source)
	assert.Equal(t, "/home/user/.claude/skills/pdf-reader", entry.AgentLinks["claude"])
}
