package module

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hostsgen/hostsgen/internal/hosts"
)

var (
	// ErrNoModules is returned when every module was excluded or failed to resolve.
	ErrNoModules = errors.New("no modules left to build")
	// ErrDuplicateModule is returned when two declarations share a name.
	ErrDuplicateModule = errors.New("duplicate module name")
)

// ResolutionError reports a module whose source could not be loaded.
type ResolutionError struct {
	Module string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// LoadResult is the outcome of resolving a project's modules.
type LoadResult struct {
	// Modules holds the resolved modules in declaration order.
	Modules []Module
	// Excluded lists declared modules removed by the blacklist.
	Excluded []string
	Warnings []string
	Errors   []*ResolutionError
}

// Loader turns raw module declarations into resolved modules.
type Loader struct {
	Source Source
	// Quiet suppresses warnings about declarations without a description.
	Quiet       bool
	Concurrency int
}

// NewLoader creates a loader reading module data from src.
func NewLoader(src Source, quiet bool) *Loader {
	return &Loader{
		Source:      src,
		Quiet:       quiet,
		Concurrency: runtime.GOMAXPROCS(0),
	}
}

// Declarations parses raw declarations and removes blacklisted names, keeping
// the original order of what remains.
func (l *Loader) Declarations(raw, blacklist []string) ([]Declaration, *LoadResult, error) {
	result := &LoadResult{}

	banned := make(map[string]bool, len(blacklist))
	for _, b := range blacklist {
		banned[b] = true
	}

	seen := make(map[string]bool, len(raw))
	matched := make(map[string]bool)
	var decls []Declaration

	for _, r := range raw {
		decl, described := ParseDeclaration(r)
		if !described && !l.Quiet {
			result.Warnings = append(result.Warnings, fmt.Sprintf("No description in mod %s", decl.Name))
		}
		if seen[decl.Name] {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateModule, decl.Name)
		}
		seen[decl.Name] = true

		if banned[decl.Name] {
			matched[decl.Name] = true
			result.Excluded = append(result.Excluded, decl.Name)
			continue
		}
		decls = append(decls, decl)
	}

	for _, b := range blacklist {
		if !matched[b] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Blacklisted mod %s is not declared", b))
			matched[b] = true
		}
	}

	return decls, result, nil
}

// Load resolves every non-blacklisted module through the loader's Source.
// Sources are read concurrently; results keep declaration order. A module
// that cannot be resolved is reported in Errors and skipped.
func (l *Loader) Load(ctx context.Context, raw, blacklist []string) (*LoadResult, error) {
	decls, result, err := l.Declarations(raw, blacklist)
	if err != nil {
		return nil, err
	}

	mods := make([]Module, len(decls))
	errs := make([]*ResolutionError, len(decls))

	g, ctx := errgroup.WithContext(ctx)
	if l.Concurrency > 0 {
		g.SetLimit(l.Concurrency)
	}

	for i, decl := range decls {
		g.Go(func() error {
			mod, err := l.resolve(ctx, decl)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = &ResolutionError{Module: decl.Name, Err: err}
				return nil
			}
			mods[i] = mod
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range decls {
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i])
			continue
		}
		result.Modules = append(result.Modules, mods[i])
	}

	if len(result.Modules) == 0 {
		return result, ErrNoModules
	}

	return result, nil
}

func (l *Loader) resolve(ctx context.Context, decl Declaration) (Module, error) {
	rc, err := l.Source.Open(ctx, decl.Name)
	if err != nil {
		return Module{}, err
	}
	defer rc.Close()

	entries, parseErrs, err := hosts.Collect(hosts.Parse(rc))
	if err != nil {
		return Module{}, err
	}

	return Module{
		Name:        decl.Name,
		Description: decl.Description,
		Entries:     entries,
		ParseErrors: parseErrs,
	}, nil
}
