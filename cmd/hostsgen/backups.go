package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/hosts"
)

func (a *app) backupsCmd() *cobra.Command {
	var system bool
	cmd := &cobra.Command{
		Use:   "backups",
		Short: "listing backups...",
		Long:  "List backups of the generated output, or of the system hosts file with --system.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.BackupDir()
			if system {
				dir = cfg.SystemBackupDir()
			}

			list, err := hosts.NewBackups(dir, cfg.Backups.Keep).List()
			if err != nil {
				return fmt.Errorf("failed to list backups: %w", err)
			}
			if len(list) == 0 {
				a.log.Print("No backups in %s.\n", dir)
				return nil
			}

			w := tabwriter.NewWriter(a.log.Out(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDATE\tSIZE")
			for _, b := range list {
				fmt.Fprintf(w, "%s\t%s\t%d\n", b.Name, time.Unix(b.Timestamp, 0).Format(time.DateTime), b.Size)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "list backups of the system hosts file")
	return cmd
}

func (a *app) restoreCmd() *cobra.Command {
	var (
		system    bool
		hostsPath string
	)
	cmd := &cobra.Command{
		Use:   "restore NAME",
		Short: "restoring backup...",
		Long:  "Restore the generated output, or the system hosts file with --system, from a backup.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, done, err := a.builder()
			if err != nil {
				return err
			}
			defer done()

			if system {
				return b.Restore(b.Config.SystemBackupDir(), args[0], b.HostsPath(hostsPath))
			}
			out, err := b.OutputPath(a.out)
			if err != nil {
				return err
			}
			return b.Restore(b.Config.BackupDir(), args[0], out)
		},
	}
	cmd.Flags().BoolVar(&system, "system", false, "restore the system hosts file")
	cmd.Flags().StringVar(&hostsPath, "hosts", "", "system hosts file (with --system)")
	return cmd
}
