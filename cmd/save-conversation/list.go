package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/discover"
)

func listCmd() *cobra.Command {
	var loc projectFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of a project, newest first",
		Long:  `Lists conversation logs in a project folder. Without --project-path or --cwd the current directory's project is used.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			dir := loc.projectDir(cfg)
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("working directory: %w", err)
				}
				dir = cfg.ProjectDir(discover.EncodeProject(wd))
			}

			sessions, err := discover.List(dir)
			if err != nil {
				return fmt.Errorf("list %s: %w", dir, err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "No sessions in %s\n", dir)
				return nil
			}

			p := newPainter(out)
			for _, s := range sessions {
				fmt.Fprintf(out, "%s  %s  %s\n",
					s.SessionID,
					p.paint(styleDim, fmt.Sprintf("%-14s", humanize.Time(s.ModTime))),
					p.paint(styleDim, humanize.Bytes(uint64(s.Size))))
			}
			return nil
		},
	}

	loc.register(cmd)

	return cmd
}
