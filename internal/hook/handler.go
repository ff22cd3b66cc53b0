// Package hook lets Claude Code save a transcript automatically when a
// session ends.
package hook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/export"
)

const stdinTimeout = 2 * time.Second

// Input is the JSON object Claude Code sends to hooks via stdin.
type Input struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	HookEventName  string `json:"hook_event_name"`
	CWD            string `json:"cwd"`
	Reason         string `json:"reason,omitempty"`
	Trigger        string `json:"trigger,omitempty"`
	PermissionMode string `json:"permission_mode,omitempty"`
}

// Handle reads one hook payload from r and exports the session it names.
// A nil Result with a nil error means the event needed no transcript.
func Handle(ctx context.Context, r io.Reader, cfg config.Config, event string, logger *slog.Logger) (*export.Result, error) {
	input, err := ReadInput(r, stdinTimeout)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return handleInput(ctx, input, event, cfg, logger)
}

func handleInput(ctx context.Context, input *Input, event string, cfg config.Config, logger *slog.Logger) (*export.Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// --event overrides the payload's own event name
	if event != "" {
		input.HookEventName = event
	}

	// /clear ends a session with nothing worth keeping
	if input.Reason == "clear" {
		logger.Debug("skipping cleared session", "session", input.SessionID)
		return nil, nil
	}

	switch input.HookEventName {
	case "SessionEnd", "PreCompact", "":
		return exportSession(ctx, input, cfg, logger)
	case "Stop":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown hook event: %s", input.HookEventName)
	}
}

// ReadInput decodes the hook payload, giving up after timeout.
func ReadInput(r io.Reader, timeout time.Duration) (*Input, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	var data []byte
	select {
	case data = <-done:
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, errors.New("stdin read timeout")
	}

	if len(data) == 0 {
		return nil, errors.New("empty stdin")
	}

	var input Input
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("parse stdin JSON: %w", err)
	}
	return &input, nil
}

func exportSession(ctx context.Context, input *Input, cfg config.Config, logger *slog.Logger) (*export.Result, error) {
	if input.TranscriptPath == "" {
		return nil, errors.New("no transcript_path in hook input")
	}

	opts := export.Options{
		LogPath:        input.TranscriptPath,
		SessionID:      input.SessionID,
		DefaultTopic:   cfg.DefaultTopic,
		OutputDir:      cfg.OutputDir,
		Conflict:       cfg.OnConflict,
		RequireContent: cfg.RequireContent,
		Logger:         logger,
	}
	if cfg.Archive.Enabled {
		opts.ArchiveDir = cfg.Archive.Dir
	}

	res, err := export.Run(ctx, opts)
	if errors.Is(err, export.ErrNoContent) {
		logger.Info("no dialogue to save", "session", input.SessionID)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("export session %s: %w", input.SessionID, err)
	}
	return res, nil
}
