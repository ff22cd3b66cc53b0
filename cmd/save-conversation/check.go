package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/check"
	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/discover"
	"github.com/suykerbuyk/save-conversation/internal/hook"
)

var errChecksFailed = errors.New("one or more checks failed")

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Diagnose the configuration and directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("working directory: %w", err)
			}
			settings, err := hook.SettingsPath()
			if err != nil {
				return err
			}

			report := check.Run(cfg, cfg.ProjectDir(discover.EncodeProject(wd)), settings)
			fmt.Fprint(cmd.OutOrStdout(), report.Format())
			if report.HasFailures() {
				return errChecksFailed
			}
			return nil
		},
	}
}
