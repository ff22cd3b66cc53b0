package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var outputDir string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config.toml (kept if it already exists)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputDir != "" {
				abs, err := filepath.Abs(outputDir)
				if err != nil {
					return err
				}
				outputDir = abs
			}
			path, created, err := config.WriteDefault(outputDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newPainter(out)
			if created {
				fmt.Fprintf(out, "%s %s\n", p.paint(styleLabel, "Created:"), path)
			} else {
				fmt.Fprintf(out, "%s %s\n", p.paint(styleLabel, "Exists:"), path)
			}
			return nil
		},
	}
	initCmd.Flags().StringVar(&outputDir, "output-dir", "", "Transcript directory to record in the new config")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(config.ConfigDir(), "config.toml"))
		},
	}

	cmd.AddCommand(initCmd, pathCmd)
	return cmd
}
