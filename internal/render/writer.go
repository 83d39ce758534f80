package render

import (
	"strings"

	"github.com/donaldgifford/makeparse/internal/parser"
)

// Write serializes a parse result back into Makefile text. Tokens are
// written in order; the phony set, which has no position in the AST, is
// written as a single .PHONY line at the end.
//
// The output is normalized: blank-comment lines come back as empty lines
// and continuation lines come back joined.
func Write(res *parser.Result) string {
	var b strings.Builder

	for _, tok := range res.AST {
		writeToken(&b, tok)
	}

	if len(res.Phony) > 0 {
		b.WriteString(".PHONY: ")
		b.WriteString(strings.Join(res.Phony, " "))
		b.WriteByte('\n')
	}

	return b.String()
}

func writeToken(b *strings.Builder, tok parser.Token) {
	switch t := tok.(type) {
	case *parser.EmptyLine:
		b.WriteByte('\n')

	case *parser.Comment:
		writeComment(b, t.Lines)

	case *parser.Target:
		writeComment(b, t.Comment)
		b.WriteString(t.Name)
		b.WriteByte(':')
		if len(t.Deps) > 0 {
			b.WriteByte(' ')
			b.WriteString(strings.Join(t.Deps, " "))
		}
		b.WriteByte('\n')
		for _, line := range t.Recipe {
			b.WriteByte('\t')
			b.WriteString(line)
			b.WriteByte('\n')
		}

	case *parser.Variable:
		writeComment(b, t.Comment)
		b.WriteString(t.Name)
		b.WriteByte(' ')
		if t.Op == "" {
			b.WriteByte('=')
		} else {
			b.WriteString(t.Op)
		}
		if t.Value != "" {
			b.WriteByte(' ')
			b.WriteString(t.Value)
		}
		b.WriteByte('\n')

	case *parser.Export:
		b.WriteString("export")
		if !t.Global {
			b.WriteByte(' ')
			b.WriteString(t.Name)
			if t.Value != nil {
				if t.Op == "" {
					b.WriteByte('=')
				} else {
					b.WriteString(t.Op)
				}
				b.WriteString(*t.Value)
			}
		}
		b.WriteByte('\n')

	case *parser.Include:
		writeComment(b, t.Comment)
		if t.Optional {
			b.WriteByte('-')
		}
		b.WriteString("include ")
		b.WriteString(t.Path)
		b.WriteByte('\n')
	}
}

func writeComment(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
