package module

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrModuleNotFound is returned by a Source that has no data for a module.
var ErrModuleNotFound = errors.New("module source not found")

// Source opens the hosts data of a module by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DirSource looks modules up on disk under Root, first as <name>/hosts and
// then as <name>.hosts.
type DirSource struct {
	Root string
}

// NewDirSource creates a source reading module files under root.
func NewDirSource(root string) *DirSource {
	return &DirSource{Root: root}
}

// Candidates lists the paths tried for a module, in lookup order.
func (s *DirSource) Candidates(name string) []string {
	return []string{
		filepath.Join(s.Root, name, "hosts"),
		filepath.Join(s.Root, name+".hosts"),
	}
}

// Open returns the first existing candidate file for name.
func (s *DirSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid module name %q", name)
	}

	for _, path := range s.Candidates(name) {
		f, err := os.Open(path) // #nosec G304 - module paths come from the project file
		if err == nil {
			info, statErr := f.Stat()
			if statErr == nil && info.IsDir() {
				f.Close()
				continue
			}
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
	}

	return nil, fmt.Errorf("%w: looked for %s", ErrModuleNotFound, strings.Join(s.Candidates(name), ", "))
}

// MapSource serves module data from memory.
type MapSource map[string]string

// Open returns the stored text for name.
func (s MapSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, name)
	}
	return io.NopCloser(strings.NewReader(data)), nil
}
