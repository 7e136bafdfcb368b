package hosts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesAndOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "hosts")

	require.NoError(t, WriteFile(path, []byte("1.1.1.1 a\n")))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1 a\n", string(content))

	require.NoError(t, WriteFile(path, []byte("2.2.2.2 b\n")))
	content, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2.2.2.2 b\n", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFile_MissingParent(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "missing", "hosts")

	err := WriteFile(path, []byte("1.1.1.1 a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriteFile_ReadOnlyParent(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can write to read-only directories")
	}

	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "ro")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "hosts")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))
	require.NoError(t, os.Chmod(dir, 0555))
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := WriteFile(path, []byte("new\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not writable")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(content))
}

func TestWriteFile_DestinationIsDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "out")
	require.NoError(t, os.Mkdir(path, 0755))

	err := WriteFile(path, []byte("1.1.1.1 a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
