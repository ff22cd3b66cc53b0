package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/manpage"
)

func manCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:    "man [dir]",
		Short:  "Write roff man pages for every command",
		Hidden: true,
		Args:   cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "man"
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, page := range manpage.Pages(cmd.Root()) {
				path := filepath.Join(dir, page.Name+".1")
				if err := os.WriteFile(path, []byte(manpage.FormatRoff(page, version, date)), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(out, "  %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date in the page footer (default: today)")

	return cmd
}
