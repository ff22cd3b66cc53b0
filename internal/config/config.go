package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const appName = "save-conversation"

// Conflict policies for an output file that already exists.
const (
	ConflictOverwrite = "overwrite"
	ConflictSuffix    = "suffix"
)

// Config holds all save-conversation configuration.
type Config struct {
	ProjectsDir    string `toml:"projects_dir"`
	OutputDir      string `toml:"output_dir"`
	DefaultTopic   string `toml:"default_topic"`
	OnConflict     string `toml:"on_conflict"`
	RequireContent bool   `toml:"require_content"`

	Archive ArchiveConfig `toml:"archive"`
}

type ArchiveConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProjectsDir:  "~/.claude/projects",
		OutputDir:    "~/.claude/skills/save-conversation/transcripts",
		DefaultTopic: "conversation",
		OnConflict:   ConflictOverwrite,
		Archive: ArchiveConfig{
			Enabled: false,
			Dir:     "~/.claude/skills/save-conversation/archive",
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	switch cfg.OnConflict {
	case ConflictOverwrite, ConflictSuffix:
	case "":
		cfg.OnConflict = ConflictOverwrite
	default:
		return cfg, fmt.Errorf("on_conflict: unknown policy %q (want %q or %q)",
			cfg.OnConflict, ConflictOverwrite, ConflictSuffix)
	}

	cfg.ProjectsDir = expandHome(cfg.ProjectsDir)
	cfg.OutputDir = expandHome(cfg.OutputDir)
	cfg.Archive.Dir = expandHome(cfg.Archive.Dir)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ProjectDir returns the log folder for an encoded project name.
func (c Config) ProjectDir(encoded string) string {
	return filepath.Join(c.ProjectsDir, encoded)
}
