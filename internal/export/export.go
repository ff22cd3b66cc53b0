// Package export runs one conversation log through extraction and rendering
// and writes the resulting markdown transcript.
package export

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/archive"
	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/extract"
	"github.com/suykerbuyk/save-conversation/internal/render"
	"github.com/suykerbuyk/save-conversation/internal/transcript"
)

const fallbackTopic = "conversation"

// Options configures a single export.
type Options struct {
	LogPath   string
	SessionID string // defaults to the log's own session ID

	// Topic is the document title. When empty it is taken from the log's
	// slug, then its summary record, then DefaultTopic.
	Topic        string
	DefaultTopic string

	// OutputPath, when set, is used verbatim. Otherwise the transcript goes
	// to OutputDir/{date}-{slug}.md.
	OutputPath string
	OutputDir  string
	Conflict   string // config.ConflictOverwrite or config.ConflictSuffix

	// RequireContent turns an empty transcript into ErrNoContent.
	RequireContent bool

	// ArchiveDir, when set, receives a zstd copy of the log.
	ArchiveDir string

	Now    func() time.Time
	Logger *slog.Logger
}

// Result describes a completed export.
type Result struct {
	Path      string
	Topic     string
	SessionID string
	Entries   int
	Skipped   int // malformed or oversized lines
	Bytes     int
	Archived  string
}

// Run exports the log named by opts.LogPath.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	runTime := now()

	conv, err := read(ctx, opts.LogPath, logger)
	if err != nil {
		return nil, err
	}

	if opts.RequireContent && len(conv.entries) == 0 {
		return nil, ErrNoContent
	}

	topic := firstNonEmpty(oneLine(opts.Topic), oneLine(conv.slug), oneLine(conv.summary), oneLine(opts.DefaultTopic), fallbackTopic)
	sessionID := firstNonEmpty(opts.SessionID, conv.sessionID, archive.SessionID(opts.LogPath))

	date := runTime
	if !conv.started.IsZero() {
		date = conv.started
	}

	markdown := render.Markdown(render.Document{
		Topic:     topic,
		SessionID: sessionID,
		Date:      date,
		Entries:   conv.entries,
	})

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = resolveOutput(opts.OutputDir, opts.Conflict, runTime, topic)
	}

	if err := writeAtomic(outPath, []byte(markdown)); err != nil {
		return nil, err
	}

	logger.Debug("transcript written",
		"path", outPath,
		"entries", len(conv.entries),
		"skipped_lines", conv.skipped,
	)

	res := &Result{
		Path:      outPath,
		Topic:     topic,
		SessionID: sessionID,
		Entries:   len(conv.entries),
		Skipped:   conv.skipped,
		Bytes:     len(markdown),
	}

	if opts.ArchiveDir != "" {
		archived, err := archive.Archive(opts.LogPath, opts.ArchiveDir)
		if err != nil {
			logger.Warn("could not archive log", "path", opts.LogPath, "err", err)
		} else {
			res.Archived = archived
		}
	}

	return res, nil
}

// conversation is what one pass over a log yields.
type conversation struct {
	entries   []extract.Entry
	slug      string
	summary   string
	sessionID string
	started   time.Time
	skipped   int
}

func read(ctx context.Context, path string, logger *slog.Logger) (*conversation, error) {
	f, err := transcript.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	defer f.Close()

	conv := &conversation{}
	for f.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := f.Result()
		switch res.Skip {
		case transcript.SkipNone:
		case transcript.SkipDecode, transcript.SkipTooLong:
			conv.skipped++
			logger.Debug("skipping line", "path", path, "line", res.Line, "reason", res.Skip, "err", res.Err)
			continue
		default:
			continue
		}

		rec := res.Record
		if conv.slug == "" {
			conv.slug = rec.Slug
		}
		if conv.summary == "" && rec.Type == transcript.TypeSummary {
			conv.summary = rec.Summary
		}
		if conv.sessionID == "" {
			conv.sessionID = rec.SessionID
		}

		entry, ok := extract.Record(rec)
		if !ok {
			continue
		}
		if conv.started.IsZero() {
			conv.started = entry.Timestamp
		}
		conv.entries = append(conv.entries, entry)
	}
	if err := f.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return conv, nil
}

func resolveOutput(dir, conflict string, date time.Time, topic string) string {
	path := filepath.Join(dir, render.Filename(date, topic))
	if conflict != config.ConflictSuffix {
		return path
	}
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(dir, render.SuffixedFilename(date, topic, n))
	}
	return path
}

// writeAtomic writes data to a temp file beside path and renames it into
// place, so path either holds the full transcript or is untouched.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".save-conversation-*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// oneLine collapses runs of whitespace, newlines included, so a topic stays
// on the title line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
