package main

import (
	"errors"

	"github.com/hostsgen/hostsgen/internal/build"
	"github.com/hostsgen/hostsgen/internal/config"
	"github.com/hostsgen/hostsgen/internal/module"
)

// Process exit codes.
const (
	exitOK            = 0
	exitConfig        = 1
	exitOutputIsDir   = 2
	exitInvalidOutput = 3
	exitNoArtifact    = 4
	exitValidation    = 5
	exitFailure       = 6
)

// exitCode maps an operation error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var cfgErr *config.ConfigError
	var valErr *config.ValidationError
	var failed *build.ValidationFailedError

	switch {
	case errors.As(err, &cfgErr),
		errors.As(err, &valErr),
		errors.Is(err, build.ErrNoOutput),
		errors.Is(err, module.ErrDuplicateModule):
		return exitConfig
	case errors.Is(err, build.ErrOutputIsDir):
		return exitOutputIsDir
	case errors.Is(err, build.ErrInvalidOutput):
		return exitInvalidOutput
	case errors.Is(err, build.ErrNoArtifact):
		return exitNoArtifact
	case errors.As(err, &failed):
		return exitValidation
	default:
		return exitFailure
	}
}
