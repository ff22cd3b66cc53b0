package extract

import (
	"reflect"
	"testing"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/transcript"
)

var ts = time.Date(2026, 2, 22, 10, 0, 0, 0, time.UTC)

func user(blocks ...transcript.Block) transcript.Record {
	return transcript.Record{Type: "user", Role: "user", Content: blocks, Timestamp: ts}
}

func assistant(blocks ...transcript.Block) transcript.Record {
	return transcript.Record{Type: "assistant", Role: "assistant", Content: blocks, Timestamp: ts}
}

func text(s string) transcript.Block { return transcript.TextBlock{Text: s} }

func TestRecord_User(t *testing.T) {
	entry, ok := Record(user(text("What is 2+2?")))
	if !ok {
		t.Fatal("expected an entry")
	}
	want := Entry{Role: RoleUser, Body: []Line{{Kind: LineText, Text: "What is 2+2?"}}, Timestamp: ts}
	if !reflect.DeepEqual(entry, want) {
		t.Errorf("entry = %+v, want %+v", entry, want)
	}
}

func TestRecord_UserConcatenatesText(t *testing.T) {
	entry, ok := Record(user(
		text("  first part"),
		transcript.ToolResultBlock{ToolUseID: "t1"},
		text("second part  "),
	))
	if !ok {
		t.Fatal("expected an entry")
	}
	if got := entry.Body[0].Text; got != "first part\nsecond part" {
		t.Errorf("text = %q", got)
	}
	if len(entry.Body) != 1 {
		t.Errorf("user entries have one body line, got %d", len(entry.Body))
	}
}

func TestRecord_UserSkips(t *testing.T) {
	meta := user(text("<command-name>/clear</command-name>"))
	meta.IsMeta = true

	feedback := user(text("Tool ran fine"))
	feedback.ToolResult = true

	tests := []struct {
		name string
		rec  transcript.Record
	}{
		{"tool result only", user(transcript.ToolResultBlock{ToolUseID: "t1"})},
		{"whitespace", user(text("   \n\t"))},
		{"no content", user()},
		{"meta", meta},
		{"tool feedback marker", feedback},
		{"interrupt notice", user(text("[Request interrupted by user for tool use]"))},
		{"only a reminder", user(text("<system-reminder>context</system-reminder>"))},
		{"thinking only", user(transcript.ThinkingBlock{Thinking: "?"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entry, ok := Record(tt.rec); ok {
				t.Errorf("expected skip, got %+v", entry)
			}
		})
	}
}

func TestRecord_UserStripsInjectedText(t *testing.T) {
	entry, ok := Record(user(text("Refactor auth\n<system-reminder>file changed</system-reminder>")))
	if !ok {
		t.Fatal("expected an entry")
	}
	if got := entry.Body[0].Text; got != "Refactor auth" {
		t.Errorf("text = %q", got)
	}
}

func TestRecord_UserKeepsLiteralTags(t *testing.T) {
	tests := []string{
		"Why does my parser choke on <tool> and </thinking> tags?",
		"Explain what <command-name>/review</command-name> does in the log",
		"Compare <tool-use-id>abc</tool-use-id> with <skill-name>",
	}
	for _, in := range tests {
		entry, ok := Record(user(text(in)))
		if !ok {
			t.Fatalf("Record(%q) skipped", in)
		}
		if got := entry.Body[0].Text; got != in {
			t.Errorf("text = %q, want %q", got, in)
		}
	}
}

func TestRecord_UserSlashCommand(t *testing.T) {
	entry, ok := Record(user(text("<command-message>review is running…</command-message>\n<command-name>/review</command-name>\n<command-args>pr 12</command-args>")))
	if !ok {
		t.Fatal("expected an entry")
	}
	if got := entry.Body[0].Text; got != "review is running…\n/review\npr 12" {
		t.Errorf("text = %q", got)
	}
}

func TestRecord_AssistantTextAndTool(t *testing.T) {
	entry, ok := Record(assistant(text("Hello"), transcript.ToolUseBlock{ID: "t1", Name: "Bash"}))
	if !ok {
		t.Fatal("expected an entry")
	}
	if entry.Role != RoleAssistant {
		t.Errorf("role = %v", entry.Role)
	}
	want := []Line{{Kind: LineText, Text: "Hello"}, {Kind: LineTool, Text: "Bash"}}
	if !reflect.DeepEqual(entry.Body, want) {
		t.Errorf("body = %+v, want %+v", entry.Body, want)
	}
}

func TestRecord_AssistantInterleaving(t *testing.T) {
	entry, ok := Record(assistant(
		transcript.ThinkingBlock{Thinking: "plan"},
		transcript.ToolUseBlock{Name: "Read"},
		text("  Found it.  "),
		transcript.SnapshotBlock{Kind: "image"},
		transcript.ToolUseBlock{},
		text(""),
		text("Done."),
	))
	if !ok {
		t.Fatal("expected an entry")
	}
	want := []Line{
		{Kind: LineTool, Text: "Read"},
		{Kind: LineText, Text: "Found it."},
		{Kind: LineTool, Text: "Unknown"},
		{Kind: LineText, Text: "Done."},
	}
	if !reflect.DeepEqual(entry.Body, want) {
		t.Errorf("body = %+v, want %+v", entry.Body, want)
	}
}

func TestRecord_AssistantSkips(t *testing.T) {
	tests := []struct {
		name string
		rec  transcript.Record
	}{
		{"thinking only", assistant(transcript.ThinkingBlock{Thinking: "deep thoughts"})},
		{"blank text", assistant(text("  "))},
		{"no content", assistant()},
		{"tool result", assistant(transcript.ToolResultBlock{ToolUseID: "t"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if entry, ok := Record(tt.rec); ok {
				t.Errorf("expected skip, got %+v", entry)
			}
		})
	}
}

func TestRecord_OtherRoles(t *testing.T) {
	for _, role := range []string{"system", "summary", "progress", "file-history-snapshot", ""} {
		rec := transcript.Record{Type: role, Role: role, Content: []transcript.Block{text("visible?")}}
		if _, ok := Record(rec); ok {
			t.Errorf("role %q should be skipped", role)
		}
	}
}

func TestRecord_AssistantKeepsMarkdown(t *testing.T) {
	src := "Run:\n\n```sh\ngo test ./...\n```\n\n| a | b |"
	entry, _ := Record(assistant(text(src)))
	if got := entry.Body[0].Text; got != src {
		t.Errorf("text was rewritten: %q", got)
	}
}
