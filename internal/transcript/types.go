package transcript

import (
	"encoding/json"
	"time"
)

// Record types that appear in Claude Code JSONL logs.
const (
	TypeUser                = "user"
	TypeAssistant           = "assistant"
	TypeSystem              = "system"
	TypeSummary             = "summary"
	TypeProgress            = "progress"
	TypeFileHistorySnapshot = "file-history-snapshot"
)

// Roles a record can be attributed to.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// line is the on-disk shape of a single JSONL line.
type line struct {
	Type      string `json:"type"`
	UUID      string `json:"uuid"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	Slug      string `json:"slug,omitempty"`

	// Present on user/assistant lines
	Message *message `json:"message,omitempty"`

	// Present on summary lines
	Summary string `json:"summary,omitempty"`

	// IsMeta marks system-injected messages (CLAUDE.md, context reminders).
	IsMeta bool `json:"isMeta,omitempty"`

	// Present on user lines that carry tool feedback rather than typed text.
	ToolUseResult           json.RawMessage `json:"toolUseResult,omitempty"`
	SourceToolAssistantUUID string          `json:"sourceToolAssistantUUID,omitempty"`
}

// message is the inner message object on user/assistant lines.
type message struct {
	Role    string          `json:"role"`
	Model   string          `json:"model,omitempty"`
	Content json.RawMessage `json:"content"` // string or []block
}

// rawBlock is one element of a content array before it is typed.
type rawBlock struct {
	Type      string `json:"type"`
	Text      string `json:"text,omitempty"`
	Thinking  string `json:"thinking,omitempty"`
	ID        string `json:"id,omitempty"`          // tool_use id
	Name      string `json:"name,omitempty"`        // tool name
	ToolUseID string `json:"tool_use_id,omitempty"` // tool_result
}

// Record is one decoded line of a conversation log.
type Record struct {
	Type      string
	Role      string
	Content   []Block
	Timestamp time.Time
	SessionID string
	Model     string

	// Slug is the session label Claude Code attaches to conversation lines.
	Slug string
	// Summary is set on summary records only.
	Summary string

	IsMeta bool
	// ToolResult is true when the record is tool feedback routed through the
	// user role rather than text the user typed.
	ToolResult bool
}
