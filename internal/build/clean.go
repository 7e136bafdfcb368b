package build

import (
	"errors"
	"fmt"
	"os"

	"github.com/hostsgen/hostsgen/internal/journal"
)

// Clean deletes the build artifacts: the output override, if any, and the
// configured output. Missing files are ignored. It returns the paths that are
// still present afterwards.
func (b *Builder) Clean(override string) ([]string, error) {
	if err := ValidateOutput(override); err != nil {
		return nil, err
	}

	var targets []string
	seen := make(map[string]bool)
	for _, p := range []string{override, b.Config.OutputPath()} {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		targets = append(targets, p)
	}

	var (
		removed   []string
		remaining []string
		errs      []error
	)
	for _, p := range targets {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed = append(removed, p)
			b.Log.Debug("Removed %s", p)
		case errors.Is(err, os.ErrNotExist):
		default:
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", p, err))
			if _, statErr := os.Stat(p); statErr == nil {
				remaining = append(remaining, p)
			}
		}
	}

	err := errors.Join(errs...)
	b.Journal.Log(journal.ActionClean, map[string]any{"removed": removed, "remaining": remaining}, err)

	if len(remaining) > 0 {
		b.Log.Warn("failed to delete some file: %v", remaining)
		return remaining, err
	}
	b.Log.Info("Cleaned.")
	return nil, nil
}
