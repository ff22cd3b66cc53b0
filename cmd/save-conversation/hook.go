package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/hook"
)

func hookCmd() *cobra.Command {
	var event string

	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Save the transcript of a session Claude Code just ended",
		Long: `Hook reads the JSON payload Claude Code passes to hook commands on stdin
and exports the session it names. It is meant to run as a SessionEnd hook;
sessions ended with /clear are skipped.

Install it with: save-conversation hook install`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			res, err := hook.Handle(cmd.Context(), cmd.InOrStdin(), cfg, event, slog.Default())
			if err != nil {
				return err
			}
			if res != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "save-conversation: %s\n", res.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&event, "event", "", "Override the hook event name from stdin")

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Register the hook in ~/.claude/settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hook.SettingsPath()
			if err != nil {
				return err
			}
			changed, err := hook.Install(path)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Hook installed in %s\n", config.CompressHome(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Hook already configured in %s\n", config.CompressHome(path))
			}
			return nil
		},
	}

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hook from ~/.claude/settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hook.SettingsPath()
			if err != nil {
				return err
			}
			changed, err := hook.Uninstall(path)
			if err != nil {
				return err
			}
			if changed {
				fmt.Fprintf(cmd.OutOrStdout(), "Hook removed from %s\n", config.CompressHome(path))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Hook not found in %s\n", config.CompressHome(path))
			}
			return nil
		},
	}

	cmd.AddCommand(installCmd, uninstallCmd)
	return cmd
}
