package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorPrimary = lipgloss.Color("12")  // bright blue
	colorPath    = lipgloss.Color("10")  // bright green
	colorDim     = lipgloss.Color("240") // gray

	styleLabel = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	stylePath = lipgloss.NewStyle().
			Foreground(colorPath)

	styleDim = lipgloss.NewStyle().
			Foreground(colorDim)
)

// painter styles text only when writing to a terminal, so piped output
// stays plain.
type painter struct {
	color bool
}

func newPainter(w io.Writer) painter {
	f, ok := w.(*os.File)
	return painter{color: ok && term.IsTerminal(int(f.Fd()))}
}

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}
