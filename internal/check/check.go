// Package check diagnoses a save-conversation setup.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/save-conversation/internal/config"
	"github.com/suykerbuyk/save-conversation/internal/discover"
	"github.com/suykerbuyk/save-conversation/internal/hook"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "save-conversation check\n\n  no checks ran\n"
	}

	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("save-conversation check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the resolved config path. Broken TOML fails config.Load
// before the checks run, so a missing file is the only warning.
func CheckConfig() Result {
	cfgPath := filepath.Join(config.ConfigDir(), "config.toml")
	if _, err := os.Stat(cfgPath); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(cfgPath) + " not found (using defaults)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfgPath)}
}

// CheckProjects checks the conversation log root and counts its projects.
func CheckProjects(dir string) Result {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{Name: "projects", Status: Fail, Detail: dir + " not found"}
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() {
			n++
		}
	}
	return Result{Name: "projects", Status: Pass, Detail: fmt.Sprintf("%s (%d projects)", config.CompressHome(dir), n)}
}

// CheckSessions counts the logs in the project folder for cwd.
func CheckSessions(projectDir string) Result {
	sessions, err := discover.List(projectDir)
	if err != nil {
		return Result{Name: "sessions", Status: Warn, Detail: config.CompressHome(projectDir) + " not readable"}
	}
	if len(sessions) == 0 {
		return Result{Name: "sessions", Status: Warn, Detail: "no sessions for this directory"}
	}
	return Result{Name: "sessions", Status: Pass, Detail: fmt.Sprintf("%d in %s", len(sessions), config.CompressHome(projectDir))}
}

// CheckWritable checks that dir exists and accepts files, or that its
// nearest existing ancestor does so it can be created on first export.
func CheckWritable(name, dir string) Result {
	base := dir
	for {
		info, err := os.Stat(base)
		if err == nil {
			if !info.IsDir() {
				return Result{Name: name, Status: Fail, Detail: base + " is not a directory"}
			}
			break
		}
		parent := filepath.Dir(base)
		if parent == base {
			return Result{Name: name, Status: Fail, Detail: dir + " has no existing ancestor"}
		}
		base = parent
	}

	f, err := os.CreateTemp(base, ".save-conversation-check-*")
	if err != nil {
		return Result{Name: name, Status: Fail, Detail: config.CompressHome(base) + " not writable"}
	}
	f.Close()
	os.Remove(f.Name())

	if base != dir {
		return Result{Name: name, Status: Warn, Detail: config.CompressHome(dir) + " will be created"}
	}
	return Result{Name: name, Status: Pass, Detail: config.CompressHome(dir)}
}

// CheckHook checks whether the SessionEnd hook is configured in the Claude
// Code settings file at path.
func CheckHook(path string) Result {
	settings, err := hook.ReadSettings(path)
	if err != nil {
		return Result{Name: "hook", Status: Warn, Detail: err.Error()}
	}
	if hook.IsInstalled(settings) {
		return Result{Name: "hook", Status: Pass, Detail: "installed in " + config.CompressHome(path)}
	}
	return Result{Name: "hook", Status: Warn, Detail: "not installed (optional)"}
}

// Run executes all checks against the given config and returns a report.
// projectDir is the log folder of the current directory.
func Run(cfg config.Config, projectDir, settingsPath string) Report {
	var results []Result

	results = append(results, CheckConfig())
	results = append(results, CheckProjects(cfg.ProjectsDir))
	results = append(results, CheckSessions(projectDir))
	results = append(results, CheckWritable("output", cfg.OutputDir))
	if cfg.Archive.Enabled {
		results = append(results, CheckWritable("archive", cfg.Archive.Dir))
	}
	results = append(results, CheckHook(settingsPath))

	return Report{Results: results}
}
