package main

import (
	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/build"
)

func (a *app) applyCmd() *cobra.Command {
	var (
		opts   build.ApplyOptions
		remove bool
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "applying project...",
		Long: "Build the project, then install its entries into a managed section of the\n" +
			"system hosts file. Lines outside the section are left alone.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, done, err := a.builder()
			if err != nil {
				return err
			}
			defer done()

			if remove {
				return b.Unapply(opts.Hosts)
			}
			opts.Options = a.buildOptions()
			_, err = b.Apply(cmd.Context(), opts)
			return err
		},
	}
	cmd.Flags().StringVar(&opts.Hosts, "hosts", "", "system hosts file (default from config, else /etc/hosts)")
	cmd.Flags().BoolVar(&opts.Flush, "flush", false, "flush the DNS cache afterwards")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the project's section instead of writing it")
	return cmd
}
