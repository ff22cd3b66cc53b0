package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "save-conversation: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "save-conversation",
		Short: "Export a Claude Code conversation to a markdown transcript",
		Long: `save-conversation reads a Claude Code conversation log (.jsonl) and writes a
clean markdown transcript of the user and assistant dialogue. Reasoning,
tool output and file snapshots are left out; tool calls appear as one-line
"Used tool" notes.

Configuration: ~/.config/save-conversation/config.toml`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log skipped lines and other details to stderr")

	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(hookCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(manCmd())

	return rootCmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "save-conversation %s\n", version)
		},
	}
}
