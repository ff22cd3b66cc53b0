package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var extensions = []string{".jsonl", ".jsonl.zst"}

// Session is a conversation log found on disk.
type Session struct {
	Path      string
	SessionID string
	ModTime   time.Time
	Size      int64
}

// EncodeProject returns the folder name Claude Code uses for a working
// directory under ~/.claude/projects: every character other than an ASCII
// letter, digit or '-' becomes '-'.
//
//	/Users/ph/.claude/skills -> -Users-ph--claude-skills
func EncodeProject(cwd string) string {
	var b strings.Builder
	for _, r := range cwd {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// SessionPath returns the log for sessionID inside projectDir, preferring a
// plain .jsonl over an archived .jsonl.zst. When neither exists the plain
// path is returned so callers report the location they expected.
func SessionPath(projectDir, sessionID string) string {
	for _, ext := range extensions {
		candidate := filepath.Join(projectDir, sessionID+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(projectDir, sessionID+extensions[0])
}

// FindBySessionID locates a log by session ID under projectsDir.
// Checks projectsDir/*/{sessionID}.jsonl[.zst] and the subagents/ folder of
// each project.
func FindBySessionID(projectsDir, sessionID string) (string, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		for _, dir := range []string{
			filepath.Join(projectsDir, e.Name()),
			filepath.Join(projectsDir, e.Name(), "subagents"),
		} {
			for _, ext := range extensions {
				candidate := filepath.Join(dir, sessionID+ext)
				if _, err := os.Stat(candidate); err == nil {
					return candidate, nil
				}
			}
		}
	}

	return "", os.ErrNotExist
}

// List returns the sessions in projectDir, newest first. Only files named
// {uuid}.jsonl or {uuid}.jsonl.zst count.
func List(projectDir string) ([]Session, error) {
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		return nil, err
	}

	var results []Session
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := sessionID(e.Name())
		if !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue // removed while listing
		}
		results = append(results, Session{
			Path:      filepath.Join(projectDir, e.Name()),
			SessionID: id,
			ModTime:   info.ModTime(),
			Size:      info.Size(),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModTime.After(results[j].ModTime)
	})

	return results, nil
}

func sessionID(name string) (string, bool) {
	for _, ext := range extensions {
		if !strings.HasSuffix(name, ext) {
			continue
		}
		id := strings.TrimSuffix(name, ext)
		if len(id) != 36 {
			return "", false
		}
		if _, err := uuid.Parse(id); err != nil {
			return "", false
		}
		return id, true
	}
	return "", false
}
