// Package extract turns transcript records into renderable entries.
package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/sanitize"
	"github.com/suykerbuyk/save-conversation/internal/transcript"
)

// Role identifies who an entry belongs to.
type Role int

const (
	RoleUser Role = iota + 1
	RoleAssistant
)

// LineKind distinguishes prose from tool summaries in an entry body.
type LineKind int

const (
	LineText LineKind = iota + 1
	LineTool
)

// Line is one body element of an entry. For LineTool, Text is the tool name.
type Line struct {
	Kind LineKind
	Text string
}

// Entry is one rendered section of a transcript.
type Entry struct {
	Role      Role
	Body      []Line
	Timestamp time.Time
}

const unknownTool = "Unknown"

// Record maps a record to at most one entry. ok is false when the record has
// nothing worth showing: unknown roles, harness-injected turns, tool
// feedback, and turns made only of thinking or snapshots.
func Record(rec transcript.Record) (Entry, bool) {
	switch rec.Role {
	case transcript.RoleUser:
		return userEntry(rec)
	case transcript.RoleAssistant:
		return assistantEntry(rec)
	}
	return Entry{}, false
}

func userEntry(rec transcript.Record) (Entry, bool) {
	if rec.IsMeta || rec.ToolResult {
		return Entry{}, false
	}

	var parts []string
	for _, b := range rec.Content {
		switch b := b.(type) {
		case transcript.TextBlock:
			parts = append(parts, b.Text)
		case transcript.ThinkingBlock, transcript.ToolUseBlock,
			transcript.ToolResultBlock, transcript.SnapshotBlock:
		default:
			panic(fmt.Sprintf("extract: unhandled block %T", b))
		}
	}

	text := sanitize.UserText(strings.Join(parts, "\n"))
	if text == "" || sanitize.IsSideChannel(text) {
		return Entry{}, false
	}

	return Entry{
		Role:      RoleUser,
		Body:      []Line{{Kind: LineText, Text: text}},
		Timestamp: rec.Timestamp,
	}, true
}

func assistantEntry(rec transcript.Record) (Entry, bool) {
	var body []Line
	for _, b := range rec.Content {
		switch b := b.(type) {
		case transcript.TextBlock:
			if text := strings.TrimSpace(b.Text); text != "" {
				body = append(body, Line{Kind: LineText, Text: text})
			}
		case transcript.ToolUseBlock:
			name := b.Name
			if name == "" {
				name = unknownTool
			}
			body = append(body, Line{Kind: LineTool, Text: name})
		case transcript.ThinkingBlock, transcript.ToolResultBlock, transcript.SnapshotBlock:
		default:
			panic(fmt.Sprintf("extract: unhandled block %T", b))
		}
	}

	if len(body) == 0 {
		return Entry{}, false
	}

	return Entry{Role: RoleAssistant, Body: body, Timestamp: rec.Timestamp}, true
}
