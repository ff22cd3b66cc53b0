package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigDir returns the save-conversation config directory path.
// Uses $XDG_CONFIG_HOME/save-conversation if set, otherwise
// ~/.config/save-conversation.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// WriteDefault writes a default config.toml. A non-empty outputDir replaces
// the default transcript directory. Returns the config file path and whether
// a file was written; an existing config.toml is left alone.
func WriteDefault(outputDir string) (string, bool, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	cfg := DefaultConfig()
	if outputDir != "" {
		cfg.OutputDir = CompressHome(outputDir)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return "", false, fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
