package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig validates the entire configuration.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return &ValidationError{Field: "config", Message: "config is nil"}
	}

	if strings.TrimSpace(cfg.Name) == "" {
		return &ValidationError{Field: "name", Message: "project name is required"}
	}

	if len(cfg.Mods) == 0 {
		return &ValidationError{Field: "mods", Message: "at least one module is required"}
	}
	for i, m := range cfg.Mods {
		if strings.TrimSpace(m) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("mods[%d]", i),
				Message: "module declaration is empty",
			}
		}
	}

	for i, a := range cfg.Authors {
		if strings.TrimSpace(a) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("authors[%d]", i),
				Message: "author is empty",
			}
		}
	}

	if err := ValidateOutputPath(cfg.Out); err != nil && cfg.Out != "" {
		return &ValidationError{Field: "out", Message: err.Error()}
	}

	if cfg.Backups.Keep < 0 {
		return &ValidationError{
			Field:   "backups.keep",
			Message: fmt.Sprintf("must not be negative: %d", cfg.Backups.Keep),
		}
	}

	return validateApply(&cfg.Apply)
}

func validateApply(a *ApplySettings) error {
	switch a.Flush {
	case FlushMethodNone, FlushMethodAuto, FlushMethodDscacheutil, FlushMethodKillall,
		FlushMethodBoth, FlushMethodSystemd, FlushMethodNscd, "":
		// Valid
	default:
		return &ValidationError{
			Field:   "apply.flush",
			Message: fmt.Sprintf("invalid flush method: %s", a.Flush),
		}
	}
	return nil
}

// ValidateOutputPath rejects output names that would be mistaken for flags.
func ValidateOutputPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("output path is empty")
	}
	if strings.HasPrefix(p, "-") {
		return fmt.Errorf("output path should not start with '-': %s", p)
	}
	return nil
}
