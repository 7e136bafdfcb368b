package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournal_LogAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hostsgen", "journal.log")

	j, err := Open(path, "demo")
	require.NoError(t, err)
	assert.Equal(t, path, j.Path())
	j.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	j.Log(ActionBuild, map[string]any{"out": "hosts", "entries": 3}, nil)
	j.Log(ActionClean, nil, errors.New("permission denied"))
	require.NoError(t, j.Close())

	records, err := Read(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "2024-05-01T12:00:00Z", records[0].Timestamp)
	assert.Equal(t, ActionBuild, records[0].Action)
	assert.Equal(t, "demo", records[0].Project)
	assert.True(t, records[0].Success)
	assert.Empty(t, records[0].Error)

	assert.Equal(t, ActionClean, records[1].Action)
	assert.False(t, records[1].Success)
	assert.Equal(t, "permission denied", records[1].Error)
}

func TestJournal_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")

	for i := 0; i < 2; i++ {
		j, err := Open(path, "demo")
		require.NoError(t, err)
		j.Log(ActionBuild, nil, nil)
		require.NoError(t, j.Close())
	}

	records, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestJournal_NilAndClosed(t *testing.T) {
	var j *Journal
	j.Log(ActionBuild, nil, nil)
	assert.NoError(t, j.Close())

	j, err := Open(filepath.Join(t.TempDir(), "journal.log"), "demo")
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())
	j.Log(ActionBuild, nil, nil)
}

func TestRead_Missing(t *testing.T) {
	records, err := Read(filepath.Join(t.TempDir(), "nope.log"))
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestRead_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.log")
	require.NoError(t, os.WriteFile(path, []byte("{\"action\":\"build\",\"success\":true}\nnot json\n"), 0644))

	records, err := Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal line 2")
	assert.Len(t, records, 1)
}
