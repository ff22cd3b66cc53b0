package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxSlugLen   = 50
	defaultTopic = "conversation"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace    = regexp.MustCompile(`[\s_]+`)
	slugDashRuns = regexp.MustCompile(`-+`)
)

// Slugify turns a topic into a filename-safe slug of at most 50 bytes.
// Topics with nothing usable become "conversation".
func Slugify(topic string) string {
	s := strings.ToLower(topic)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpace.ReplaceAllString(s, "-")
	s = slugDashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "-")
	}
	if s == "" {
		return defaultTopic
	}
	return s
}

// Filename returns the transcript filename: YYYY-MM-DD-{slug}.md
func Filename(date time.Time, topic string) string {
	return fmt.Sprintf("%s-%s.md", date.Format("2006-01-02"), Slugify(topic))
}

// SuffixedFilename returns the nth alternative name used when Filename is
// taken: YYYY-MM-DD-{slug}-{n}.md
func SuffixedFilename(date time.Time, topic string, n int) string {
	return fmt.Sprintf("%s-%s-%d.md", date.Format("2006-01-02"), Slugify(topic), n)
}
