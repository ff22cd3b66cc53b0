package transcript

import (
	"encoding/json"
	"testing"
)

func TestDecodeContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Block
	}{
		{"string", `"hello world"`, []Block{TextBlock{Text: "hello world"}}},
		{"empty", ``, nil},
		{"null", `null`, nil},
		{"number", `42`, nil},
		{"object", `{"type":"text","text":"x"}`, nil},
		{
			"mixed array",
			`[{"type":"thinking","thinking":"hmm"},{"type":"text","text":"a"},{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls"}},{"type":"tool_result","tool_use_id":"t1","content":[{"type":"text","text":"out"}]}]`,
			[]Block{
				ThinkingBlock{Thinking: "hmm"},
				TextBlock{Text: "a"},
				ToolUseBlock{ID: "t1", Name: "Bash"},
				ToolResultBlock{ToolUseID: "t1"},
			},
		},
		{
			"unknown kinds become snapshots",
			`[{"type":"image","source":{"type":"base64"}},{"type":"document"}]`,
			[]Block{SnapshotBlock{Kind: "image"}, SnapshotBlock{Kind: "document"}},
		},
		{
			"bare strings and untagged text",
			`["one",{"text":"two"},{}]`,
			[]Block{TextBlock{Text: "one"}, TextBlock{Text: "two"}, SnapshotBlock{}},
		},
		{"non-object items dropped", `[1,true,{"type":"text","text":"kept"}]`, []Block{TextBlock{Text: "kept"}}},
		{"redacted thinking", `[{"type":"redacted_thinking","data":"..."}]`, []Block{ThinkingBlock{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeContent(json.RawMessage(tt.raw))
			if len(got) != len(tt.want) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("block %d = %#v, want %#v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
