// Package config loads and validates the hostsgen project file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hostsgen/hostsgen/internal/hosts"
)

// FileName is the project config file looked up in the working directory.
const FileName = "hostsgen.yml"

// DefaultBackupDir is where output backups go when the project does not say otherwise.
const DefaultBackupDir = ".hostsgen/backups"

// DefaultJournalPath is the project-relative path of the operation journal.
const DefaultJournalPath = ".hostsgen/journal.log"

// ErrNotFound is wrapped by ConfigError when the project file does not exist.
var ErrNotFound = errors.New("project config does not exist")

// FlushMethod selects how the DNS cache is flushed after apply.
type FlushMethod string

const (
	FlushMethodNone        FlushMethod = "none"
	FlushMethodAuto        FlushMethod = "auto"
	FlushMethodDscacheutil FlushMethod = "dscacheutil"
	FlushMethodKillall     FlushMethod = "killall"
	FlushMethodBoth        FlushMethod = "both"
	FlushMethodSystemd     FlushMethod = "systemd"
	FlushMethodNscd        FlushMethod = "nscd"
)

// BackupSettings controls backups of files hostsgen replaces.
type BackupSettings struct {
	Dir  string `yaml:"dir,omitempty"`
	Keep int    `yaml:"keep,omitempty"`
}

// ApplySettings controls installation into the system hosts file.
type ApplySettings struct {
	Hosts string      `yaml:"hosts,omitempty"`
	Flush FlushMethod `yaml:"flush,omitempty"`
}

// Config is the parsed hostsgen.yml.
type Config struct {
	Name    string         `yaml:"name"`
	Desc    string         `yaml:"desc"`
	Out     string         `yaml:"out,omitempty"`
	Authors []string       `yaml:"authors"`
	Mods    []string       `yaml:"mods"`
	ModsDir string         `yaml:"modsdir,omitempty"`
	Backups BackupSettings `yaml:"backups,omitempty"`
	Apply   ApplySettings  `yaml:"apply,omitempty"`

	// root is the directory holding the config file; relative paths resolve against it.
	root string
}

// ConfigError reports a missing, unreadable or invalid project file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load reads, parses and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Path: path, Err: ErrNotFound}
		}
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to read config file: %w", err)}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	cfg.root = filepath.Dir(path)

	return cfg, nil
}

// Parse decodes and validates project YAML. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config file is empty")
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Root returns the directory the config was loaded from.
func (c *Config) Root() string {
	if c.root == "" {
		return "."
	}
	return c.root
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root(), p)
}

// ModulesDir returns the directory module sources are looked up in.
func (c *Config) ModulesDir() string {
	if c.ModsDir == "" {
		return c.Root()
	}
	return c.resolve(c.ModsDir)
}

// OutputPath returns the configured output, resolved against the project root.
func (c *Config) OutputPath() string {
	return c.resolve(c.Out)
}

// BackupDir returns the directory backups are written to.
func (c *Config) BackupDir() string {
	if c.Backups.Dir == "" {
		return c.resolve(DefaultBackupDir)
	}
	return c.resolve(c.Backups.Dir)
}

// SystemBackupDir returns where backups of the system hosts file go. It is kept
// apart from output backups since both files are usually named "hosts".
func (c *Config) SystemBackupDir() string {
	return filepath.Join(c.BackupDir(), "system")
}

// JournalPath returns the path of the operation journal.
func (c *Config) JournalPath() string {
	return c.resolve(DefaultJournalPath)
}

// HostsPath returns the system hosts file apply writes to.
func (c *Config) HostsPath() string {
	if c.Apply.Hosts == "" {
		return hosts.DefaultSystemPath
	}
	return c.Apply.Hosts
}

// Header returns the comment lines describing the project in generated output.
func (c *Config) Header(modules []string) []string {
	header := []string{fmt.Sprintf("%s - generated by hostsgen", c.Name)}
	if c.Desc != "" {
		header = append(header, c.Desc)
	}
	if len(c.Authors) > 0 {
		header = append(header, fmt.Sprintf("authors: %s", strings.Join(c.Authors, ", ")))
	}
	if len(modules) > 0 {
		header = append(header, fmt.Sprintf("modules: %s", strings.Join(modules, ", ")))
	}
	return header
}

// CreateDefault writes a starter project file declaring a single module.
func CreateDefault(path, name string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := &Config{
		Name:    name,
		Desc:    "hosts project",
		Out:     "hosts",
		Authors: []string{},
		Mods:    []string{"base local development entries"},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	// #nosec G306 - project files are meant to be shared
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}
