package hosts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManaged_Write(t *testing.T) {
	tmpDir := t.TempDir()
	hostsPath := filepath.Join(tmpDir, "hosts")
	backupDir := filepath.Join(tmpDir, "backups")

	initialContent := "127.0.0.1\tlocalhost\n255.255.255.255\tbroadcasthost\n"
	require.NoError(t, os.WriteFile(hostsPath, []byte(initialContent), 0644))

	m := NewManaged(hostsPath, "demo", NewBackups(backupDir, 0))
	backup, err := m.Write([]Entry{
		{IP: "127.0.0.1", Hostnames: []string{"myapp.local"}, Comment: "web"},
		{IP: "10.0.0.1", Hostnames: []string{"api.myapp.local", "db.myapp.local"}},
	}, RenderOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, backup)

	content, err := os.ReadFile(hostsPath)
	require.NoError(t, err)

	expected := "127.0.0.1\tlocalhost\n255.255.255.255\tbroadcasthost\n\n" +
		"# ===== HOSTSGEN demo BEGIN - DO NOT EDIT =====\n" +
		"127.0.0.1 myapp.local # web\n" +
		"10.0.0.1 api.myapp.local db.myapp.local\n" +
		"# ===== HOSTSGEN demo END =====\n"
	assert.Equal(t, expected, string(content))
}

func TestManaged_WriteReplacesExisting(t *testing.T) {
	tmpDir := t.TempDir()
	hostsPath := filepath.Join(tmpDir, "hosts")

	initialContent := `127.0.0.1	localhost

# ===== HOSTSGEN demo BEGIN - DO NOT EDIT =====
127.0.0.1 old.local
# ===== HOSTSGEN demo END =====
`
	require.NoError(t, os.WriteFile(hostsPath, []byte(initialContent), 0644))

	m := NewManaged(hostsPath, "demo", nil)
	_, err := m.Write([]Entry{{IP: "127.0.0.1", Hostnames: []string{"new.local"}, Comment: "c"}}, RenderOptions{NoComments: true})
	require.NoError(t, err)

	content, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "127.0.0.1\tlocalhost")
	assert.Contains(t, string(content), "127.0.0.1 new.local\n")
	assert.NotContains(t, string(content), "old.local")
	assert.NotContains(t, string(content), "# c")

	entries, err := m.Read()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"new.local"}, entries[0].Hostnames)
}

func TestManaged_OtherProjectsUntouched(t *testing.T) {
	tmpDir := t.TempDir()
	hostsPath := filepath.Join(tmpDir, "hosts")
	require.NoError(t, os.WriteFile(hostsPath, []byte("127.0.0.1 localhost\n"), 0644))

	a := NewManaged(hostsPath, "a", nil)
	b := NewManaged(hostsPath, "b", nil)
	_, err := a.Write([]Entry{{IP: "10.0.0.1", Hostnames: []string{"a.local"}}}, RenderOptions{})
	require.NoError(t, err)
	_, err = b.Write([]Entry{{IP: "10.0.0.2", Hostnames: []string{"b.local"}}}, RenderOptions{})
	require.NoError(t, err)

	require.NoError(t, a.Remove())

	aEntries, err := a.Read()
	require.NoError(t, err)
	assert.Empty(t, aEntries)

	bEntries, err := b.Read()
	require.NoError(t, err)
	require.Len(t, bEntries, 1)
	assert.Equal(t, "10.0.0.2", bEntries[0].IP)

	content, err := os.ReadFile(hostsPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "127.0.0.1 localhost")
}

func TestManaged_ReadNoSection(t *testing.T) {
	tmpDir := t.TempDir()
	hostsPath := filepath.Join(tmpDir, "hosts")
	require.NoError(t, os.WriteFile(hostsPath, []byte("127.0.0.1 localhost\n"), 0644))

	entries, err := NewManaged(hostsPath, "demo", nil).Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManaged_MissingHostsFile(t *testing.T) {
	m := NewManaged(filepath.Join(t.TempDir(), "hosts"), "demo", nil)

	_, err := m.Write(nil, RenderOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read hosts file")
}
