package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteDefault_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", home)

	path, created, err := WriteDefault(filepath.Join(home, "transcripts"))
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}

	want := filepath.Join(dir, "save-conversation", "config.toml")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	// The written file must load back through Load.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load after WriteDefault: %v", err)
	}
	if cfg.OutputDir != filepath.Join(home, "transcripts") {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.OnConflict != ConflictOverwrite {
		t.Errorf("OnConflict = %q", cfg.OnConflict)
	}
}

func TestWriteDefault_PortablePaths(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", home)

	path, _, err := WriteDefault(filepath.Join(home, "chats"))
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !containsLine(string(data), `output_dir = "~/chats"`) {
		t.Errorf("output_dir not stored home-relative:\n%s", data)
	}
}

func TestWriteDefault_KeepsExisting(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	configDir := filepath.Join(dir, "save-conversation")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := filepath.Join(configDir, "config.toml")
	original := "output_dir = \"/mine\"\n"
	if err := os.WriteFile(existing, []byte(original), 0o644); err != nil {
		t.Fatal(err)
	}

	path, created, err := WriteDefault("/other")
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	if created {
		t.Error("created = true for an existing config")
	}
	if path != existing {
		t.Errorf("path = %q, want %q", path, existing)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != original {
		t.Errorf("existing config modified: %q", data)
	}
}

func TestCompressHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{filepath.Join(home, "a", "b"), "~/a/b"},
		{home, "~"},
		{"/elsewhere", "/elsewhere"},
	}
	for _, tt := range tests {
		if got := CompressHome(tt.in); got != tt.want {
			t.Errorf("CompressHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func containsLine(s, line string) bool {
	for _, l := range strings.Split(s, "\n") {
		if l == line {
			return true
		}
	}
	return false
}
