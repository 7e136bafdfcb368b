package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/build"
	"github.com/hostsgen/hostsgen/internal/config"
	"github.com/hostsgen/hostsgen/internal/journal"
	"github.com/hostsgen/hostsgen/internal/logger"
	"github.com/hostsgen/hostsgen/internal/version"
)

// app holds the global flags and the logger shared by every command.
type app struct {
	quiet      bool
	noComments bool
	out        string
	ban        []string
	configPath string
	debug      bool
	noColor    bool

	log    *logger.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	a.log = logger.New(stdout, stderr)

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("%v", err)
	}
	if errors.Is(err, context.Canceled) {
		return exitOK
	}
	return exitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hostsgen",
		Short: "Assemble a hosts file from project modules",
		Long: "hostsgen builds a hosts file from the modules listed in " + config.FileName +
			",\nchecks existing hosts files and installs the result into the system hosts file.",
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log.SetQuiet(a.quiet)
			a.log.SetDebug(a.debug)
			if a.noColor {
				a.log.DisableColor()
			}
			return a.announce(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd.Context(), a.buildOptions())
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "suppress informational output")
	flags.BoolVarP(&a.noComments, "no-comments", "t", false, "omit comments in generated output")
	flags.StringVarP(&a.out, "out", "o", "", "override the output path")
	flags.StringArrayVarP(&a.ban, "ban", "b", nil, "exclude a module from the build (repeatable)")
	flags.StringVarP(&a.configPath, "config", "c", config.FileName, "path to the project config")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		a.buildCmd(),
		a.checkCmd(),
		a.cleanCmd(),
		a.versionCmd(),
		a.initCmd(),
		a.applyCmd(),
		a.backupsCmd(),
		a.restoreCmd(),
		a.watchCmd(),
		a.pickCmd(),
	)
	return root
}

// announce prints the run banner and validates the output override up front.
func (a *app) announce(cmd *cobra.Command) error {
	a.log.Info("Hostsgen v%s; %s", version.Version, cmd.Short)
	if a.out != "" {
		if err := build.ValidateOutput(a.out); err != nil {
			return err
		}
		a.log.Info("Outputting to %s ...", a.out)
	}
	if a.noComments {
		a.log.Info("No comments in output file")
	}
	if len(a.ban) > 0 {
		a.log.Info("No compile: %v", a.ban)
	}
	return nil
}

func (a *app) buildOptions() build.Options {
	return build.Options{
		Out:        a.out,
		NoComments: a.noComments,
		Blacklist:  a.ban,
	}
}

func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.log.Debug("Loaded project %s from %s", cfg.Name, a.configPath)
	return cfg, nil
}

// builder loads the project and opens its journal. The returned close func
// must be called when the operation is done.
func (a *app) builder() (*build.Builder, func(), error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	b := build.New(cfg, a.log)
	j, err := journal.Open(cfg.JournalPath(), cfg.Name)
	if err != nil {
		// Journaling is best effort.
		a.log.Debug("Journal disabled: %v", err)
		return b, func() {}, nil
	}
	b.Journal = j
	a.log.Debug("Journaling to %s", j.Path())
	return b, func() { _ = j.Close() }, nil
}

func (a *app) runBuild(ctx context.Context, opts build.Options) error {
	b, done, err := a.builder()
	if err != nil {
		return err
	}
	defer done()

	_, err = b.Build(ctx, opts)
	return err
}

func (a *app) buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "building project...",
		Long:  "Merge the project's modules and write the hosts file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBuild(cmd.Context(), a.buildOptions())
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "checking hosts data...",
		Long: "Validate a hosts file. Without an argument the -o file is checked if it\n" +
			"exists, otherwise the project's configured output.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.artifact(args)
			if err != nil {
				return err
			}
			_, err = build.Check(path, a.log)
			return err
		},
	}
}

// artifact picks the file check works on.
func (a *app) artifact(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if path, err := build.FindArtifact(a.out); err == nil {
		return path, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return "", err
	}
	return build.FindArtifact(cfg.OutputPath())
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "cleaning...",
		Long:  "Delete the generated hosts file (the -o file and the configured output).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, done, err := a.builder()
			if err != nil {
				return err
			}
			defer done()

			_, err = b.Clean(a.out)
			return err
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	var check bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "printing version...",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.log.Print("%s\n", version.Version)
			if !check {
				return nil
			}
			update, err := version.NewChecker(version.Owner, version.Repo, version.Version).Check(cmd.Context())
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			if update == nil {
				a.log.Info("hostsgen is up to date")
				return nil
			}
			a.log.Print("%s\n", update)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
