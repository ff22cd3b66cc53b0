package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/discover"
	"github.com/suykerbuyk/save-conversation/internal/export"
)

func exportCmd() *cobra.Command {
	var (
		sessionID      string
		loc            projectFlags
		topic          string
		output         string
		outputDir      string
		archiveLog     bool
		requireContent bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a markdown transcript of one conversation",
		Long: `Export reads ~/.claude/projects/<project>/<session-id>.jsonl and writes
<output-dir>/<date>-<topic>.md. The project folder comes from --project-path,
or is derived from --cwd; with neither, every project folder is searched.

The topic defaults to the session's own label. An existing transcript with
the same name is overwritten unless on_conflict = "suffix" is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logPath, err := loc.sessionPath(cfg, sessionID)
			if err != nil {
				return err
			}
			slog.Debug("resolved conversation log", "path", logPath)

			opts := export.Options{
				LogPath:        logPath,
				SessionID:      sessionID,
				Topic:          topic,
				DefaultTopic:   cfg.DefaultTopic,
				OutputPath:     output,
				OutputDir:      cfg.OutputDir,
				Conflict:       cfg.OnConflict,
				RequireContent: cfg.RequireContent || requireContent,
			}
			if outputDir != "" {
				opts.OutputDir = outputDir
			}
			if archiveLog || cfg.Archive.Enabled {
				opts.ArchiveDir = cfg.Archive.Dir
			}

			res, err := export.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			p := newPainter(out)
			fmt.Fprintf(out, "%s %s %s\n",
				p.paint(styleLabel, "Saved:"),
				p.paint(stylePath, res.Path),
				p.paint(styleDim, "("+humanize.Bytes(uint64(res.Bytes))+")"))
			fmt.Fprintf(out, "%s %d\n", p.paint(styleLabel, "Turns:"), res.Entries)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "%s\n", p.paint(styleDim,
					fmt.Sprintf("Skipped %d unreadable %s", res.Skipped, plural(res.Skipped, "line", "lines"))))
			}
			if res.Archived != "" {
				fmt.Fprintf(out, "%s %s\n", p.paint(styleLabel, "Archived:"), res.Archived)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session-id", "", "The session UUID")
	cmd.Flags().StringVar(&topic, "topic", "", "Topic for the title and filename (default: the session label)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of <output-dir>/<date>-<topic>.md")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for transcripts (overrides output_dir)")
	cmd.Flags().BoolVar(&archiveLog, "archive", false, "Also keep a zstd copy of the log in the archive dir")
	cmd.Flags().BoolVar(&requireContent, "require-content", false, "Fail instead of writing a transcript with no dialogue")
	loc.register(cmd)
	_ = cmd.MarkFlagRequired("session-id")
	cmd.MarkFlagsMutuallyExclusive("output", "output-dir")

	return cmd
}

// projectFlags selects the project folder holding a session's log.
type projectFlags struct {
	projectPath string
	cwd         string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.projectPath, "project-path", "", "Encoded project folder name (e.g. -Users-ph--claude-skills)")
	cmd.Flags().StringVar(&f.cwd, "cwd", "", "Working directory of the session; its folder name is derived")
	cmd.MarkFlagsMutuallyExclusive("project-path", "cwd")
}

// projectDir returns the explicit project folder, or "" when neither flag
// was given.
func (f *projectFlags) projectDir(cfg config.Config) string {
	switch {
	case f.projectPath != "":
		return cfg.ProjectDir(f.projectPath)
	case f.cwd != "":
		return cfg.ProjectDir(discover.EncodeProject(f.cwd))
	}
	return ""
}

// sessionPath resolves the log for sessionID. Without a project flag all
// project folders are searched; if that fails the current directory's folder
// is assumed so the not-found error names a concrete path.
func (f *projectFlags) sessionPath(cfg config.Config, sessionID string) (string, error) {
	if dir := f.projectDir(cfg); dir != "" {
		return discover.SessionPath(dir, sessionID), nil
	}

	path, err := discover.FindBySessionID(cfg.ProjectsDir, sessionID)
	if err == nil {
		return path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("search %s: %w", cfg.ProjectsDir, err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("working directory: %w", err)
	}
	return discover.SessionPath(cfg.ProjectDir(discover.EncodeProject(wd)), sessionID), nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
