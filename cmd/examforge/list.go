package main

import (
	"fmt"

	"github.com/kingrea/examforge/internal/library"
	"github.com/kingrea/examforge/internal/tui"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the exams, levels and exercises in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			index := library.NewIndex(cfg.LibraryDir())
			cat, err := index.Catalog()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderCatalog(index.Root(), cat))
			return nil
		},
	}
}
