package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
name: office
desc: hosts for the office network
out: build/hosts
authors:
  - alice
  - bob
mods:
  - base core loopback entries
  - ads
  - dev developer machines
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "office", cfg.Name)
	assert.Equal(t, "hosts for the office network", cfg.Desc)
	assert.Equal(t, "build/hosts", cfg.Out)
	assert.Equal(t, []string{"alice", "bob"}, cfg.Authors)
	assert.Equal(t, []string{"base core loopback entries", "ads", "dev developer machines"}, cfg.Mods)

	root := filepath.Dir(path)
	assert.Equal(t, root, cfg.Root())
	assert.Equal(t, filepath.Join(root, "build/hosts"), cfg.OutputPath())
	assert.Equal(t, root, cfg.ModulesDir())
	assert.Equal(t, filepath.Join(root, DefaultBackupDir), cfg.BackupDir())
	assert.Equal(t, filepath.Join(root, DefaultJournalPath), cfg.JournalPath())
	assert.Equal(t, "/etc/hosts", cfg.HostsPath())
}

func TestLoad_OptionalSections(t *testing.T) {
	path := writeConfig(t, `
name: office
mods: [base]
modsdir: modules
backups:
  dir: /var/tmp/hostsgen
  keep: 3
apply:
  hosts: /tmp/hosts
  flush: systemd
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(path), "modules"), cfg.ModulesDir())
	assert.Equal(t, "/var/tmp/hostsgen", cfg.BackupDir())
	assert.Equal(t, "/var/tmp/hostsgen/system", cfg.SystemBackupDir())
	assert.Equal(t, 3, cfg.Backups.Keep)
	assert.Equal(t, "/tmp/hosts", cfg.HostsPath())
	assert.Equal(t, FlushMethodSystemd, cfg.Apply.Flush)
	assert.Empty(t, cfg.OutputPath())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"empty file", "", "config file is empty"},
		{"bad yaml", "name: [unterminated", "failed to parse config file"},
		{"unknown key", "name: x\nmods: [a]\ncolour: red\n", "field colour not found"},
		{"missing name", "mods: [a]\n", "name: project name is required"},
		{"no mods", "name: x\n", "mods: at least one module is required"},
		{"blank mod", "name: x\nmods: [a, '  ']\n", "mods[1]: module declaration is empty"},
		{"dash output", "name: x\nmods: [a]\nout: -hosts\n", "out: output path should not start with '-'"},
		{"bad flush", "name: x\nmods: [a]\napply:\n  flush: magic\n", "invalid flush method: magic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoad_ValidationErrorIsReachable(t *testing.T) {
	_, err := Load(writeConfig(t, "mods: [a]\n"))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name", vErr.Field)
}

func TestConfig_Header(t *testing.T) {
	cfg := &Config{Name: "office", Desc: "office hosts", Authors: []string{"alice", "bob"}}

	header := cfg.Header([]string{"base", "dev"})
	assert.Equal(t, []string{
		"office - generated by hostsgen",
		"office hosts",
		"authors: alice, bob",
		"modules: base, dev",
	}, header)

	bare := (&Config{Name: "x"}).Header(nil)
	assert.Equal(t, []string{"x - generated by hostsgen"}, bare)
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, CreateDefault(path, "starter"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "starter", cfg.Name)
	assert.Equal(t, "hosts", cfg.Out)
	assert.Len(t, cfg.Mods, 1)

	err = CreateDefault(path, "starter")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
