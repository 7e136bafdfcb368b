package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostsgen/hostsgen/internal/module"
	"github.com/hostsgen/hostsgen/internal/tui"
)

func (a *app) pickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "picking modules...",
		Long:  "Choose the modules to build interactively. Unselected modules are excluded for this build.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			excluded, ok, err := tui.Run(fmt.Sprintf("hostsgen - %s", cfg.Name), pickItems(cfg.Mods, a.ban), a.stdin, a.stdout)
			if err != nil {
				return err
			}
			if !ok {
				a.log.Info("Cancelled.")
				return nil
			}

			opts := a.buildOptions()
			opts.Blacklist = excluded
			return a.runBuild(cmd.Context(), opts)
		},
	}
}

// pickItems lists declared modules, preselecting those not banned on the command line.
func pickItems(mods, banned []string) []tui.ModuleItem {
	ban := make(map[string]bool, len(banned))
	for _, b := range banned {
		ban[b] = true
	}

	items := make([]tui.ModuleItem, 0, len(mods))
	for _, raw := range mods {
		decl, _ := module.ParseDeclaration(raw)
		items = append(items, tui.ModuleItem{
			Name:        decl.Name,
			Description: decl.Description,
			Included:    !ban[decl.Name],
		})
	}
	return items
}
