package main

import (
	"fmt"

	"github.com/kingrea/examforge/internal/logbook"
	"github.com/kingrea/examforge/internal/tui"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the most recent assembly log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lines, _ := cmd.Flags().GetInt("lines")
			if lines <= 0 {
				return fmt.Errorf("--lines must be positive, got %d", lines)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			book, err := logbook.New(cfg.LogPath())
			if err != nil {
				return err
			}
			recent, total := book.Tail(lines)
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderLog(book.Path(), recent, total))
			return nil
		},
	}
	cmd.Flags().IntP("lines", "n", 20, "Number of entries to show")
	return cmd
}
