package hosts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// DefaultSystemPath is the path to the system hosts file.
const DefaultSystemPath = "/etc/hosts"

// Managed owns one marked block inside a hosts file that it may rewrite,
// leaving every line outside the block as it was.
type Managed struct {
	Path    string
	Project string
	Backups *Backups
}

// NewManaged creates a managed section for project inside the hosts file at path.
func NewManaged(path, project string, backups *Backups) *Managed {
	return &Managed{Path: path, Project: project, Backups: backups}
}

func (m *Managed) markerStart() string {
	return fmt.Sprintf("# ===== HOSTSGEN %s BEGIN - DO NOT EDIT =====", m.Project)
}

func (m *Managed) markerEnd() string {
	return fmt.Sprintf("# ===== HOSTSGEN %s END =====", m.Project)
}

// Read returns the entries currently inside the managed block.
func (m *Managed) Read() ([]Entry, error) {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read hosts file: %w", err)
	}

	var section []string
	inManaged := false
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == m.markerStart():
			inManaged = true
		case trimmed == m.markerEnd():
			inManaged = false
		case inManaged:
			section = append(section, line)
		}
	}

	entries, _, err := Collect(ParseString(strings.Join(section, "\n")))
	return entries, err
}

// Write replaces the managed block with entries, appending the block if it is missing.
// It returns the name of the backup taken beforehand, if any.
func (m *Managed) Write(entries []Entry, opts RenderOptions) (string, error) {
	var backup string
	if m.Backups != nil {
		name, err := m.Backups.Create(m.Path)
		if err != nil {
			return "", fmt.Errorf("failed to create backup: %w", err)
		}
		backup = name
	}

	content, err := os.ReadFile(m.Path)
	if err != nil {
		return backup, fmt.Errorf("failed to read hosts file: %w", err)
	}

	rest := m.removeSection(string(content))

	var buf bytes.Buffer
	if rest != "" {
		buf.WriteString(rest)
		buf.WriteString("\n\n")
	}
	buf.WriteString(m.markerStart())
	buf.WriteByte('\n')
	buf.Write(Render(entries, RenderOptions{NoComments: opts.NoComments}))
	buf.WriteString(m.markerEnd())
	buf.WriteByte('\n')

	if err := WriteFile(m.Path, buf.Bytes()); err != nil {
		return backup, fmt.Errorf("failed to write hosts file: %w", err)
	}

	return backup, nil
}

// Remove deletes the managed block and keeps everything else.
func (m *Managed) Remove() error {
	content, err := os.ReadFile(m.Path)
	if err != nil {
		return fmt.Errorf("failed to read hosts file: %w", err)
	}
	rest := m.removeSection(string(content))
	if rest != "" {
		rest += "\n"
	}
	return WriteFile(m.Path, []byte(rest))
}

func (m *Managed) removeSection(content string) string {
	var result []string
	inManaged := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == m.markerStart() {
			inManaged = true
			continue
		}
		if trimmed == m.markerEnd() {
			inManaged = false
			continue
		}
		if !inManaged {
			result = append(result, line)
		}
	}

	for len(result) > 0 && strings.TrimSpace(result[len(result)-1]) == "" {
		result = result[:len(result)-1]
	}

	return strings.Join(result, "\n")
}
