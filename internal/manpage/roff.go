// Package manpage renders roff man pages (section 1) from a cobra command
// tree.
package manpage

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Page is one man page.
type Page struct {
	Name        string // file stem, e.g. "save-conversation-export"
	Synopsis    string
	Usage       string
	Description string
	Flags       []Flag
	Commands    []Entry // subcommands, top-level page only
	SeeAlso     []string
}

// Flag describes one option.
type Flag struct {
	Name string // e.g. "-o, --output string"
	Desc string
}

// Entry is a row of the COMMANDS section.
type Entry struct {
	Usage string
	Brief string
}

// Pages builds a page for root and for every visible descendant command.
func Pages(root *cobra.Command) []Page {
	var pages []Page
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		pages = append(pages, fromCommand(root, c))
		for _, sub := range c.Commands() {
			if sub.IsAvailableCommand() {
				walk(sub)
			}
		}
	}
	walk(root)
	return pages
}

func fromCommand(root, c *cobra.Command) Page {
	p := Page{
		Name:        manName(c),
		Synopsis:    c.Short,
		Usage:       c.UseLine(),
		Description: c.Long,
	}
	if p.Description == "" {
		p.Description = c.Short
	}

	visit := func(f *pflag.Flag) {
		if f.Hidden || f.Name == "help" {
			return
		}
		p.Flags = append(p.Flags, Flag{Name: flagName(f), Desc: f.Usage})
	}
	c.NonInheritedFlags().VisitAll(visit)
	c.InheritedFlags().VisitAll(visit)

	for _, sub := range c.Commands() {
		if !sub.IsAvailableCommand() {
			continue
		}
		p.Commands = append(p.Commands, Entry{Usage: sub.Name(), Brief: sub.Short})
		p.SeeAlso = append(p.SeeAlso, manName(sub)+"(1)")
	}
	if c != root {
		p.SeeAlso = append([]string{manName(root) + "(1)"}, p.SeeAlso...)
	}
	return p
}

// manName joins the command path with hyphens: "save-conversation config init"
// becomes "save-conversation-config-init".
func manName(c *cobra.Command) string {
	return strings.ReplaceAll(c.CommandPath(), " ", "-")
}

func flagName(f *pflag.Flag) string {
	name := "--" + f.Name
	if f.Shorthand != "" {
		name = "-" + f.Shorthand + ", " + name
	}
	if t := f.Value.Type(); t != "bool" {
		name += " " + t
	}
	return name
}

// FormatRoff renders p. If date is empty, today's date is used (pass a fixed
// date for reproducible builds).
func FormatRoff(p Page, version, date string) string {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	var b strings.Builder

	fmt.Fprintf(&b, ".TH %s 1 %q %q %q\n",
		strings.ToUpper(p.Name), date, "save-conversation "+version, "Save-Conversation Manual")

	b.WriteString(".SH NAME\n")
	fmt.Fprintf(&b, "%s \\- %s\n", escapeRoff(p.Name), escapeRoff(p.Synopsis))

	b.WriteString(".SH SYNOPSIS\n")
	b.WriteString(".B " + escapeRoff(p.Usage) + "\n")

	if p.Description != "" {
		b.WriteString(".SH DESCRIPTION\n")
		writeRoffParagraphs(&b, p.Description)
	}

	if len(p.Commands) > 0 {
		b.WriteString(".SH COMMANDS\n")
		for _, e := range p.Commands {
			fmt.Fprintf(&b, ".TP\n.B %s\n%s\n", escapeRoff(e.Usage), escapeRoff(e.Brief))
		}
	}

	if len(p.Flags) > 0 {
		b.WriteString(".SH OPTIONS\n")
		for _, f := range p.Flags {
			fmt.Fprintf(&b, ".TP\n.B %s\n%s\n", escapeRoff(f.Name), escapeRoff(f.Desc))
		}
	}

	if len(p.SeeAlso) > 0 {
		b.WriteString(".SH SEE ALSO\n")
		refs := make([]string, len(p.SeeAlso))
		for i, ref := range p.SeeAlso {
			refs[i] = formatManRef(ref)
		}
		b.WriteString(strings.Join(refs, ",\n") + "\n")
	}

	return b.String()
}

// escapeRoff escapes backslashes, leading dots and hyphens.
func escapeRoff(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n.", "\n\\&.")
	if strings.HasPrefix(s, ".") {
		s = "\\&" + s
	}
	return strings.ReplaceAll(s, "-", "\\-")
}

// writeRoffParagraphs turns blank-line separated text into .PP paragraphs.
func writeRoffParagraphs(b *strings.Builder, text string) {
	prevBlank := false
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if !prevBlank {
				b.WriteString(".PP\n")
			}
			prevBlank = true
			continue
		}
		prevBlank = false
		b.WriteString(escapeRoff(line) + "\n")
	}
}

// formatManRef turns "name(1)" into ".BR name (1)".
func formatManRef(ref string) string {
	if i := strings.Index(ref, "("); i >= 0 {
		return fmt.Sprintf(".BR %s %s", escapeRoff(ref[:i]), ref[i:])
	}
	return ".B " + escapeRoff(ref)
}
