package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/suykerbuyk/save-conversation/internal/extract"
)

const (
	dateLayout = "2006-01-02 15:04"
	rule       = "---"
)

// Document holds everything needed to render a transcript.
type Document struct {
	Topic     string
	SessionID string
	Date      time.Time
	Entries   []extract.Entry
}

// Markdown renders a transcript document. Body text is written verbatim;
// it is already markdown.
func Markdown(d Document) string {
	var b strings.Builder

	// Header
	b.WriteString(fmt.Sprintf("# Conversation: %s\n\n", d.Topic))
	b.WriteString(fmt.Sprintf("**Date:** %s\n", d.Date.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("**Session:** %s\n\n", d.SessionID))
	b.WriteString(rule + "\n")

	for i, e := range d.Entries {
		if i > 0 {
			b.WriteString("\n" + rule + "\n")
		}
		b.WriteString("\n")
		writeEntry(&b, e)
	}

	return b.String()
}

func writeEntry(b *strings.Builder, e extract.Entry) {
	b.WriteString(heading(e.Role))
	b.WriteString("\n")

	for _, l := range e.Body {
		b.WriteString("\n")
		switch l.Kind {
		case extract.LineTool:
			b.WriteString(fmt.Sprintf("> Used tool: %s\n", l.Text))
		default:
			b.WriteString(l.Text)
			b.WriteString("\n")
		}
	}
}

func heading(r extract.Role) string {
	if r == extract.RoleUser {
		return "## User"
	}
	return "## Claude"
}
