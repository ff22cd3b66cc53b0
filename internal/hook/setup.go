package hook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/save-conversation/internal/config"
)

// Command is the hook command registered in Claude Code's settings.
const Command = "save-conversation hook"

// hookEvents are the Claude Code events the hook is registered for.
var hookEvents = []string{"SessionEnd"}

// commandHook and hookGroup mirror one entry of a settings.json event array.
type commandHook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

type hookGroup struct {
	Matcher string        `json:"matcher"`
	Hooks   []commandHook `json:"hooks"`
}

func (g hookGroup) runsHook() bool {
	for _, h := range g.Hooks {
		if strings.Contains(h.Command, Command) {
			return true
		}
	}
	return false
}

// SettingsPath returns the path to ~/.claude/settings.json.
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// Install adds the hook to the settings file at path. It reports whether the
// file changed; an already installed hook is left alone.
func Install(path string) (bool, error) {
	return rewrite(path, addHooks)
}

// Uninstall removes the hook from the settings file at path. It reports
// whether the file changed.
func Uninstall(path string) (bool, error) {
	return rewrite(path, removeHooks)
}

// rewrite applies edit to the parsed settings and, when edit reports a
// change, backs up the old file and writes the new one.
func rewrite(path string, edit func(map[string]any) bool) (bool, error) {
	settings, err := ReadSettings(path)
	if err != nil {
		return false, err
	}
	if !edit(settings) {
		return false, nil
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal settings: %w", err)
	}
	if err := backup(path); err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", config.CompressHome(path), err)
	}
	return true, nil
}

// ReadSettings parses the settings file at path. A missing or empty file
// yields an empty map.
func ReadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return map[string]any{}, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", config.CompressHome(path), err)
	case strings.TrimSpace(string(data)) == "":
		return map[string]any{}, nil
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", config.CompressHome(path), err)
	}
	return settings, nil
}

// backup keeps the current settings as path.save-conversation.bak. A missing
// file needs no backup.
func backup(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("backup %s: %w", config.CompressHome(path), err)
	}
	if err := os.WriteFile(path+".save-conversation.bak", data, 0o644); err != nil {
		return fmt.Errorf("backup %s: %w", config.CompressHome(path), err)
	}
	return nil
}

// IsInstalled reports whether every hook event has an entry running Command.
func IsInstalled(settings map[string]any) bool {
	return len(installedEvents(settings)) == len(hookEvents)
}

// installedEvents lists the hook events that already run Command.
func installedEvents(settings map[string]any) []string {
	var events []string
	for _, event := range hookEvents {
		if hasEntry(eventEntries(settings, event)) {
			events = append(events, event)
		}
	}
	return events
}

func eventEntries(settings map[string]any, event string) []any {
	byEvent, _ := settings["hooks"].(map[string]any)
	entries, _ := byEvent[event].([]any)
	return entries
}

func addHooks(settings map[string]any) bool {
	byEvent, ok := settings["hooks"].(map[string]any)
	if !ok {
		byEvent = map[string]any{}
	}

	changed := false
	for _, event := range hookEvents {
		if hasEntry(eventEntries(settings, event)) {
			continue
		}
		group := hookGroup{Hooks: []commandHook{{Type: "command", Command: Command}}}
		byEvent[event] = append(eventEntries(settings, event), group)
		changed = true
	}
	if changed {
		settings["hooks"] = byEvent
	}
	return changed
}

// removeHooks drops our entries and any event arrays or hooks map left empty.
func removeHooks(settings map[string]any) bool {
	if len(installedEvents(settings)) == 0 {
		return false
	}
	byEvent := settings["hooks"].(map[string]any)

	for _, event := range hookEvents {
		var kept []any
		for _, entry := range eventEntries(settings, event) {
			if !entryRunsHook(entry) {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			delete(byEvent, event)
			continue
		}
		byEvent[event] = kept
	}

	if len(byEvent) == 0 {
		delete(settings, "hooks")
	}
	return true
}

func hasEntry(entries []any) bool {
	for _, entry := range entries {
		if entryRunsHook(entry) {
			return true
		}
	}
	return false
}

// entryRunsHook reports whether an event entry, either freshly added or
// decoded from JSON, has a command containing Command.
func entryRunsHook(entry any) bool {
	switch e := entry.(type) {
	case hookGroup:
		return e.runsHook()
	case map[string]any:
		inner, _ := e["hooks"].([]any)
		for _, h := range inner {
			fields, _ := h.(map[string]any)
			if cmd, _ := fields["command"].(string); strings.Contains(cmd, Command) {
				return true
			}
		}
	}
	return false
}
