package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/donaldgifford/makeparse/internal/parser"
)

// HelpOptions configures Help.
type HelpOptions struct {
	// Indent is one indentation level; entries use two.
	Indent string
	// Sections lists the token kinds to document, in order: "target",
	// "variable".
	Sections []string
	// MakeHelp wraps the listing in a "help:" target of @echo lines.
	MakeHelp bool
}

// section titles keyed by section name.
var sectionTitles = map[string]string{
	"target":   "Targets",
	"variable": "Variables",
}

type helpEntry struct {
	name    string
	comment []string
}

// Help renders a listing of the documented targets and variables: every
// token of a section that carries a comment, with its name padded so the
// comments line up.
func Help(ast []parser.Token, opts HelpOptions) (string, error) {
	var lines []string
	for _, section := range opts.Sections {
		title, ok := sectionTitles[section]
		if !ok {
			return "", fmt.Errorf("unknown help section %q", section)
		}
		lines = append(lines, "", opts.Indent+title, "")
		lines = append(lines, helpSection(helpEntries(ast, section), opts.Indent)...)
	}

	if opts.MakeHelp {
		wrapped := make([]string, 0, len(lines)+2)
		wrapped = append(wrapped, "", "help:")
		for _, line := range lines {
			wrapped = append(wrapped, "\t@echo \""+escapeEcho(line)+"\"")
		}
		lines = wrapped
	}

	return strings.Join(lines, "\n") + "\n", nil
}

func helpEntries(ast []parser.Token, section string) []helpEntry {
	var entries []helpEntry
	for _, tok := range ast {
		switch t := tok.(type) {
		case *parser.Target:
			if section == "target" && t.Comment != nil {
				entries = append(entries, helpEntry{t.Name, t.Comment})
			}
		case *parser.Variable:
			if section == "variable" && t.Comment != nil {
				entries = append(entries, helpEntry{t.Name, t.Comment})
			}
		}
	}
	return entries
}

func helpSection(entries []helpEntry, indent string) []string {
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(e.name))
	}
	width += 2

	prefix := strings.Repeat(indent, 2)
	blank := strings.Repeat(" ", width)

	var lines []string
	for _, e := range entries {
		name := e.name + strings.Repeat(" ", width-runewidth.StringWidth(e.name))
		lines = append(lines, prefix+name+e.comment[0])
		for _, c := range e.comment[1:] {
			lines = append(lines, prefix+blank+c)
		}
	}
	return lines
}

// escapeEcho quotes a line for a double-quoted @echo argument.
func escapeEcho(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "$", "$$")
}
