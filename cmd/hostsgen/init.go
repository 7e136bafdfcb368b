package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/config"
)

const exampleModule = `# loopback
127.0.0.1 localhost
::1 localhost
`

func (a *app) initCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "creating project...",
		Long:  "Write a starter " + config.FileName + " and an example module next to it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := filepath.Dir(a.configPath)
			if name == "" {
				abs, err := filepath.Abs(root)
				if err != nil {
					return fmt.Errorf("failed to resolve project directory: %w", err)
				}
				name = filepath.Base(abs)
			}

			if err := config.CreateDefault(a.configPath, name); err != nil {
				return err
			}
			a.log.Info("Created %s", a.configPath)

			mod := filepath.Join(root, "base.hosts")
			if _, err := os.Stat(mod); err == nil {
				a.log.Info("Keeping existing %s", mod)
				return nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to stat %s: %w", mod, err)
			}
			// #nosec G306 - module files are meant to be shared
			if err := os.WriteFile(mod, []byte(exampleModule), 0644); err != nil {
				return fmt.Errorf("failed to write example module: %w", err)
			}
			a.log.Info("Created %s", mod)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (defaults to the directory name)")
	return cmd
}
