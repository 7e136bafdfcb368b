package build

import (
	"errors"
	"fmt"
	"os"

	"github.com/hostsgen/hostsgen/internal/hosts"
	"github.com/hostsgen/hostsgen/internal/logger"
)

// FindArtifact returns the first candidate path that exists as a regular file.
// Empty candidates are skipped. ErrNoArtifact is returned when none exists.
func FindArtifact(candidates ...string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		info, err := os.Stat(c)
		if err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", ErrNoArtifact
}

// Check validates the hosts file at path and logs every violation.
// It returns a *ValidationFailedError when the file has any.
func Check(path string, log *logger.Logger) (*hosts.Report, error) {
	log.Check("Checking file %s", path)

	// #nosec G304 - path is the file the user asked to check
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoArtifact, path)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	report, err := hosts.Check(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if report.OK() {
		log.Check("%s: %d entries, no violations", path, report.Entries)
		return report, nil
	}

	violations := make([]Violation, len(report.Violations))
	for i, v := range report.Violations {
		violations[i] = Violation{Violation: v}
		log.Error("%s", violations[i])
	}
	return report, &ValidationFailedError{Target: path, Violations: violations}
}
