package devenv

import (
	"os"
	"path/filepath"
	"testing"
	"tpsearch/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestGetWorkspaceRoot(t *testing.T) {
	root := testutil.InTempDir(t)
	_, err := GetWorkspaceRoot()
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module tpsearch\n\ngo 1.22.2\n"), 0644))
	nested := filepath.Join(root, "lib", "platforms")
	require.NoError(t, os.MkdirAll(nested, 0777))
	testutil.Chdir(t, nested)

	found, err := GetWorkspaceRoot()
	require.NoError(t, err)
	expected, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	path, err := ResolvePath("<dev_state>/results.json")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(found, "dev", ".state", "results.json"), path)
	require.DirExists(t, filepath.Join(found, "dev", ".state"))

	path, err = ResolvePath("results.json")
	require.NoError(t, err)
	require.Equal(t, "results.json", path)
}

func TestIsWorkspaceRoot(t *testing.T) {
	dir := t.TempDir()
	require.False(t, isWorkspaceRoot(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module other\n"), 0644))
	require.False(t, isWorkspaceRoot(dir))
}
