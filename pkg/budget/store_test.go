package budget

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsNil(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	perms, err := Load(root)
	require.NoError(t, err)
	assert.Nil(t, perms)
}

func TestLoad_ParsesBudgetFile(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".tank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tank", FileName), []byte(`{
		"network": {"outbound": ["*.example.com"]},
		"filesystem": {"write": ["/tmp/*"]},
		"subprocess": false
	}`), 0o644))

	perms, err := Load(root)
	require.NoError(t, err)
	require.NotNil(t, perms)
	require.NotNil(t, perms.Network)
	assert.Equal(t, []string{"*.example.com"}, perms.Network.Outbound)
	assert.Equal(t, []string{"/tmp/*"}, perms.Filesystem.Write)
	assert.False(t, perms.Subprocess)
}

func TestLoad_MalformedJSONIsFatal(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".tank"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tank", FileName), []byte("{bad"), 0o644))

	_, err := Load(root)
	require.Error(t, err)
}
