// Package build runs the hostsgen operations: compiling a project into a hosts
// file, checking an existing file, cleaning artifacts and applying the result to
// the system hosts file.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hostsgen/hostsgen/internal/config"
	"github.com/hostsgen/hostsgen/internal/hosts"
	"github.com/hostsgen/hostsgen/internal/journal"
	"github.com/hostsgen/hostsgen/internal/logger"
	"github.com/hostsgen/hostsgen/internal/module"
)

var (
	// ErrNoOutput is returned when neither the project nor the command line names an output.
	ErrNoOutput = errors.New("no output path: set out in the project config or pass -o")
	// ErrInvalidOutput is returned for output paths that look like flags.
	ErrInvalidOutput = errors.New("invalid output path")
	// ErrOutputIsDir is returned when the output path names a directory.
	ErrOutputIsDir = errors.New("cannot use a directory as output")
	// ErrNoArtifact is returned by check when there is no file to check.
	ErrNoArtifact = errors.New("cannot find any build artifacts")
)

// Violation is a validation problem together with the module it came from.
// Module is empty for problems found in a checked file.
type Violation struct {
	Module string
	hosts.Violation
}

func (v Violation) String() string {
	if v.Module == "" {
		return v.Violation.Error()
	}
	return fmt.Sprintf("mod %s: %s", v.Module, v.Violation.Error())
}

// ValidationFailedError is returned when a build or check finds violations.
type ValidationFailedError struct {
	Target     string
	Violations []Violation
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%s: %d violation(s) found", e.Target, len(e.Violations))
}

// Options are the command line settings shared by build and apply.
type Options struct {
	// Out overrides the configured output path.
	Out        string
	NoComments bool
	Blacklist  []string
}

// Result is a compiled project.
type Result struct {
	Load       *module.LoadResult
	Merged     *module.Merged
	Violations []Violation
	Output     []byte
	// Path is where Output was written; empty until written.
	Path string
	// Backup names the copy of the previous output, if there was one.
	Backup string
}

// Builder compiles one project.
type Builder struct {
	Config  *config.Config
	Source  module.Source
	Log     *logger.Logger
	Journal *journal.Journal
}

// New creates a builder reading module sources from the project's module directory.
func New(cfg *config.Config, log *logger.Logger) *Builder {
	return &Builder{
		Config: cfg,
		Source: module.NewDirSource(cfg.ModulesDir()),
		Log:    log,
	}
}

// ValidateOutput rejects an output override that starts with '-' or names an
// existing directory. An empty path is accepted and means "not overridden".
func ValidateOutput(path string) error {
	if path == "" {
		return nil
	}
	if err := config.ValidateOutputPath(path); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("%w: %s", ErrOutputIsDir, path)
	}
	return nil
}

// OutputPath returns the override when set, else the configured output.
func (b *Builder) OutputPath(override string) (string, error) {
	if override != "" {
		if err := ValidateOutput(override); err != nil {
			return "", err
		}
		return override, nil
	}
	out := b.Config.OutputPath()
	if out == "" {
		return "", ErrNoOutput
	}
	if err := ValidateOutput(out); err != nil {
		return "", err
	}
	return out, nil
}

// Compile loads, merges and validates the project's modules and renders the
// output. Nothing is written.
func (b *Builder) Compile(ctx context.Context, opts Options) (*Result, error) {
	cfg := b.Config
	b.Log.Info("Project '%s' by %v", cfg.Name, cfg.Authors)
	b.Log.Info("Default output: %s, desc: %s", cfg.Out, cfg.Desc)
	b.Log.Info("Modules: %v", cfg.Mods)

	loader := module.NewLoader(b.Source, b.Log.Quiet())
	loaded, err := loader.Load(ctx, cfg.Mods, opts.Blacklist)
	if loaded != nil {
		for _, w := range loaded.Warnings {
			b.Log.Warn("%s", w)
		}
		for _, e := range loaded.Errors {
			b.Log.Warn("Cannot resolve %v", e)
		}
	}
	if err != nil {
		if errors.Is(err, module.ErrNoModules) && loaded != nil && len(loaded.Errors) > 0 {
			return nil, fmt.Errorf("%w: %w", err, joinResolution(loaded.Errors))
		}
		return nil, err
	}

	names := module.Names(loaded.Modules)
	b.Log.Compile("Modules: %v", names)

	merged := module.Merge(loaded.Modules)
	for _, c := range merged.Conflicts {
		b.Log.Warn("Conflict %s", c)
	}

	result := &Result{
		Load:       loaded,
		Merged:     merged,
		Violations: validate(loaded.Modules, merged),
	}

	renderOpts := hosts.RenderOptions{NoComments: opts.NoComments}
	if !opts.NoComments {
		renderOpts.Header = cfg.Header(names)
	}
	result.Output = hosts.Render(merged.Hosts(), renderOpts)

	return result, nil
}

// Build compiles the project and atomically writes the output. When validation
// fails nothing is written and a *ValidationFailedError is returned.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	out, err := b.OutputPath(opts.Out)
	if err != nil {
		return nil, err
	}

	result, err := b.Compile(ctx, opts)
	if err != nil {
		b.Journal.Log(journal.ActionBuild, map[string]any{"out": out}, err)
		return nil, err
	}

	if len(result.Violations) > 0 {
		for _, v := range result.Violations {
			b.Log.Error("%s", v)
		}
		err := &ValidationFailedError{Target: b.Config.Name, Violations: result.Violations}
		b.Journal.Log(journal.ActionBuild, map[string]any{"out": out}, err)
		return result, err
	}

	suffix := ""
	if opts.NoComments {
		suffix = " no comments"
	}
	b.Log.Compile("Outputting to %s%s", out, suffix)

	backups := hosts.NewBackups(b.Config.BackupDir(), b.Config.Backups.Keep)
	backup, err := backups.Create(out)
	if err != nil {
		b.Journal.Log(journal.ActionBuild, map[string]any{"out": out}, err)
		return result, fmt.Errorf("failed to back up %s: %w", out, err)
	}
	if backup != "" {
		b.Log.Debug("Backed up previous output as %s", backup)
	}
	result.Backup = backup

	if err := hosts.WriteFile(out, result.Output); err != nil {
		b.Journal.Log(journal.ActionBuild, map[string]any{"out": out}, err)
		return result, err
	}
	result.Path = out

	b.Journal.Log(journal.ActionBuild, map[string]any{
		"out":       out,
		"modules":   module.Names(result.Load.Modules),
		"entries":   len(result.Merged.Entries),
		"conflicts": len(result.Merged.Conflicts),
		"backup":    backup,
	}, nil)
	b.Log.Info("Built %d entries into %s", len(result.Merged.Entries), out)

	return result, nil
}

// validate checks the merged entries and every module's parse errors, tagging
// each violation with its module.
func validate(mods []module.Module, merged *module.Merged) []Violation {
	var out []Violation

	for _, m := range mods {
		if len(m.ParseErrors) == 0 {
			continue
		}
		for _, v := range hosts.Validate(nil, m.ParseErrors).Violations {
			out = append(out, Violation{Module: m.Name, Violation: v})
		}
	}

	entries := merged.Hosts()
	report := hosts.Validate(entries, nil)
	for _, v := range report.Violations {
		out = append(out, Violation{Module: originOf(v, entries, merged), Violation: v})
	}

	return out
}

func originOf(v hosts.Violation, entries []hosts.Entry, merged *module.Merged) string {
	for i := range entries {
		if &entries[i] == v.Entry {
			return merged.Entries[i].Module
		}
	}
	return ""
}

func joinResolution(errs []*module.ResolutionError) error {
	all := make([]error, len(errs))
	for i, e := range errs {
		all[i] = e
	}
	return errors.Join(all...)
}
