package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsEmpty(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lf, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Version, lf.LockfileVersion)
	assert.Empty(t, lf.Skills)
}

func TestLoad_MalformedJSONIsFatal(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lf := New()
	lf.Set("pdf-reader", "1.0.0", Entry{
		Resolved:  "https://tankpkg.dev/download/pdf-reader/1.0.0",
		Integrity: "sha512-abc123",
	})
	lf.Set("@acme/ocr", "2.0.0", Entry{
		Resolved:  "https://tankpkg.dev/download/@acme/ocr/2.0.0",
		Integrity: "sha512-def456",
		Permissions: &Permissions{
			Network: &NetworkPermissions{Outbound: []string{"*.example.com"}},
		},
	})

	require.NoError(t, Save(dir, lf))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, loaded.Skills, 2)

	entry, ok := loaded.Get("pdf-reader", "1.0.0")
	require.True(t, ok)
	assert.Equal(t, "sha512-abc123", entry.Integrity)

	entry, ok = loaded.Get("@acme/ocr", "2.0.0")
	require.True(t, ok)
	require.NotNil(t, entry.Permissions)
	assert.Equal(t, []string{"*.example.com"}, entry.Permissions.Network.Outbound)
}

func TestSave_KeysSortedLexicographically(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lf := New()
	lf.Set("zebra", "1.0.0", Entry{Resolved: "r", Integrity: "i"})
	lf.Set("alpha", "1.0.0", Entry{Resolved: "r", Integrity: "i"})
	lf.Set("mango", "1.0.0", Entry{Resolved: "r", Integrity: "i"})

	require.NoError(t, Save(dir, lf))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	content := string(data)

	alphaIdx := strings.Index(content, `"alpha@1.0.0"`)
	mangoIdx := strings.Index(content, `"mango@1.0.0"`)
	zebraIdx := strings.Index(content, `"zebra@1.0.0"`)
	require.NotEqual(t, -1, alphaIdx)
	require.NotEqual(t, -1, mangoIdx)
	require.NotEqual(t, -1, zebraIdx)
	assert.Less(t, alphaIdx, mangoIdx)
	assert.Less(t, mangoIdx, zebraIdx)
}

func TestSave_PrettyPrintedWithTrailingNewline(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	lf := New()
	lf.Set("pdf-reader", "1.0.0", Entry{Resolved: "r", Integrity: "i"})
	require.NoError(t, Save(dir, lf))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), "  \"lockfileVersion\": 1,")

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &parsed))
}

func TestSave_EmptySkillsMap(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, Save(dir, New()))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, loaded.Skills)
}

func TestKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pdf-reader@1.0.0", Key("pdf-reader", "1.0.0"))
	assert.Equal(t, "@acme/ocr@2.0.0", Key("@acme/ocr", "2.0.0"))
}

func TestLockfile_RemoveEntry(t *testing.T) {
	t.Parallel()
	lf := New()
	lf.Set("pdf-reader", "1.0.0", Entry{Resolved: "r", Integrity: "i"})
	lf.Remove("pdf-reader", "1.0.0")

	_, ok := lf.Get("pdf-reader", "1.0.0")
	assert.False(t, ok)
}
