package transcript

import (
	"bytes"
	"encoding/json"
)

// Block is one piece of a record's content. The set of implementations is
// closed: TextBlock, ThinkingBlock, ToolUseBlock, ToolResultBlock and
// SnapshotBlock.
type Block interface {
	block()
}

// TextBlock is prose written by the user or the assistant.
type TextBlock struct {
	Text string
}

// ThinkingBlock is internal reasoning. Never rendered.
type ThinkingBlock struct {
	Thinking string
}

// ToolUseBlock records a tool invocation.
type ToolUseBlock struct {
	ID   string
	Name string
}

// ToolResultBlock is the output of a tool invocation. Never rendered.
type ToolResultBlock struct {
	ToolUseID string
}

// SnapshotBlock covers file-history snapshots and any block kind this
// package does not recognize (images, documents, future additions).
// Kind holds the original type tag.
type SnapshotBlock struct {
	Kind string
}

func (TextBlock) block()       {}
func (ThinkingBlock) block()   {}
func (ToolUseBlock) block()    {}
func (ToolResultBlock) block() {}
func (SnapshotBlock) block()   {}

// decodeContent types a message content field. Content is either a plain
// string or an array of typed blocks; anything else yields no blocks.
func decodeContent(raw json.RawMessage) []Block {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return []Block{TextBlock{Text: s}}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		blocks := make([]Block, 0, len(items))
		for _, item := range items {
			if b, ok := decodeBlock(item); ok {
				blocks = append(blocks, b)
			}
		}
		return blocks
	}
	return nil
}

func decodeBlock(raw json.RawMessage) (Block, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false
	}

	// Bare strings inside a content array are text.
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false
		}
		return TextBlock{Text: s}, true
	}

	var rb rawBlock
	if err := json.Unmarshal(raw, &rb); err != nil {
		return nil, false
	}

	switch rb.Type {
	case "text":
		return TextBlock{Text: rb.Text}, true
	case "thinking", "redacted_thinking":
		return ThinkingBlock{Thinking: rb.Thinking}, true
	case "tool_use", "server_tool_use":
		return ToolUseBlock{ID: rb.ID, Name: rb.Name}, true
	case "tool_result":
		return ToolResultBlock{ToolUseID: rb.ToolUseID}, true
	case "":
		// Untagged objects count as text when they carry any.
		if rb.Text != "" {
			return TextBlock{Text: rb.Text}, true
		}
		return SnapshotBlock{}, true
	default:
		return SnapshotBlock{Kind: rb.Type}, true
	}
}
