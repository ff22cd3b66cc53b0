package hook

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/config"
)

const transcript = `{"type":"user","timestamp":"2026-02-22T10:00:00Z","sessionId":"test-sess","slug":"feature-x","message":{"role":"user","content":"Implement feature X"}}
{"type":"assistant","timestamp":"2026-02-22T10:00:05Z","sessionId":"test-sess","message":{"role":"assistant","content":[{"type":"text","text":"Done."},{"type":"tool_use","id":"tu1","name":"Write","input":{}}]}}
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "transcripts")
	cfg.Archive.Dir = filepath.Join(t.TempDir(), "archive")
	return cfg
}

func writeTranscript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test-sess.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func outputFiles(t *testing.T, cfg config.Config) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
	return entries
}

func TestHandleInput_SessionEnd(t *testing.T) {
	cfg := testConfig(t)
	input := &Input{
		SessionID:      "test-sess",
		TranscriptPath: writeTranscript(t, transcript),
		HookEventName:  "SessionEnd",
	}

	res, err := handleInput(context.Background(), input, "", cfg, nil)
	if err != nil {
		t.Fatalf("handleInput: %v", err)
	}
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Topic != "feature-x" || res.Entries != 2 {
		t.Errorf("result = %+v", res)
	}
	if filepath.Dir(res.Path) != cfg.OutputDir {
		t.Errorf("path = %q, want under %q", res.Path, cfg.OutputDir)
	}
}

func TestHandleInput_Archive(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.Enabled = true
	input := &Input{SessionID: "test-sess", TranscriptPath: writeTranscript(t, transcript)}

	res, err := handleInput(context.Background(), input, "", cfg, nil)
	if err != nil {
		t.Fatalf("handleInput: %v", err)
	}
	if !strings.HasPrefix(res.Archived, cfg.Archive.Dir) {
		t.Errorf("archived = %q, want under %q", res.Archived, cfg.Archive.Dir)
	}
}

func TestHandleInput_NoWrite(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		event string
	}{
		{"stop", Input{HookEventName: "Stop"}, ""},
		{"stop override", Input{HookEventName: "SessionEnd"}, "Stop"},
		{"clear", Input{HookEventName: "SessionEnd", Reason: "clear"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			input := tt.input
			input.TranscriptPath = writeTranscript(t, transcript)

			res, err := handleInput(context.Background(), &input, tt.event, cfg, nil)
			if err != nil {
				t.Fatalf("handleInput: %v", err)
			}
			if res != nil {
				t.Errorf("expected no export, got %+v", res)
			}
			if n := len(outputFiles(t, cfg)); n != 0 {
				t.Errorf("%d files written", n)
			}
		})
	}
}

func TestHandleInput_RequireContentSkips(t *testing.T) {
	cfg := testConfig(t)
	cfg.RequireContent = true
	input := &Input{SessionID: "s", TranscriptPath: writeTranscript(t, "")}

	res, err := handleInput(context.Background(), input, "", cfg, nil)
	if err != nil {
		t.Fatalf("handleInput: %v", err)
	}
	if res != nil {
		t.Errorf("empty session should not be exported: %+v", res)
	}
}

func TestHandleInput_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		want  string
	}{
		{"no transcript", Input{HookEventName: "SessionEnd"}, "no transcript_path"},
		{"missing file", Input{HookEventName: "SessionEnd", TranscriptPath: "/nonexistent/x.jsonl"}, "not found"},
		{"unknown event", Input{HookEventName: "Bogus"}, "unknown hook event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			_, err := handleInput(context.Background(), &input, "", testConfig(t), nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestReadInput(t *testing.T) {
	in, err := ReadInput(strings.NewReader(`{"session_id":"abc","transcript_path":"/tmp/t.jsonl","hook_event_name":"SessionEnd","cwd":"/work","reason":"logout"}`), time.Second)
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	if in.SessionID != "abc" || in.TranscriptPath != "/tmp/t.jsonl" || in.HookEventName != "SessionEnd" || in.CWD != "/work" || in.Reason != "logout" {
		t.Errorf("input = %+v", in)
	}
}

func TestReadInput_Errors(t *testing.T) {
	if _, err := ReadInput(strings.NewReader(""), time.Second); err == nil {
		t.Error("empty input should fail")
	}
	if _, err := ReadInput(strings.NewReader("{bad"), time.Second); err == nil {
		t.Error("malformed JSON should fail")
	}

	r, w := io.Pipe()
	defer w.Close()
	if _, err := ReadInput(r, 10*time.Millisecond); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Errorf("err = %v, want timeout", err)
	}
}

func TestHandle(t *testing.T) {
	cfg := testConfig(t)
	path := writeTranscript(t, transcript)
	payload := `{"session_id":"test-sess","transcript_path":"` + filepath.ToSlash(path) + `","hook_event_name":"SessionEnd"}`

	res, err := Handle(context.Background(), strings.NewReader(payload), cfg, "", nil)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if res == nil || res.SessionID != "test-sess" {
		t.Errorf("result = %+v", res)
	}
}
