package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/build"
	"github.com/hostsgen/hostsgen/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "watching project...",
		Long:  "Build, then rebuild whenever the project config or a module source changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWatch(cmd.Context())
		},
	}
}

func (a *app) runWatch(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	w, err := watch.New(a.configPath, cfg.ModulesDir())
	if err != nil {
		return err
	}
	out := a.out
	if out == "" {
		out = cfg.OutputPath()
	}
	// A rebuild writes the output, a backup and a journal line; none of them
	// is a source change.
	w.Ignore(out, cfg.BackupDir(), cfg.JournalPath())
	w.OnError = func(err error) { a.log.Warn("watch: %v", err) }

	rebuild := func() {
		err := a.runBuild(ctx, a.buildOptions())
		var failed *build.ValidationFailedError
		switch {
		case err == nil:
		case errors.As(err, &failed):
			// Violations are already logged.
		default:
			a.log.Error("%v", err)
		}
	}

	rebuild()
	a.log.Info("Watching %v for changes, press Ctrl+C to stop", w.Paths())
	return w.Run(ctx, rebuild)
}
