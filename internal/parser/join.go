package parser

import "strings"

// Line is a logical line: one or more physical lines joined by backslash
// continuations.
type Line struct {
	Num  int // 1-indexed physical line where the logical line starts.
	Text string
}

// JoinLines splits src into logical lines. A physical line ending in a
// backslash is merged with the next one; the backslash, the newline and the
// leading blanks of the continuation are dropped with no separator added.
func JoinLines(src string) []Line {
	physical := splitLines(src)
	lines := make([]Line, 0, len(physical))
	// A backslash on the last line still precedes a newline when the source
	// ends with one.
	finalNewline := strings.HasSuffix(src, "\n")

	for i := 0; i < len(physical); i++ {
		start := i
		var b strings.Builder
		text := physical[i]
		for strings.HasSuffix(text, `\`) {
			if i+1 == len(physical) {
				if finalNewline {
					text = text[:len(text)-1]
				}
				break
			}
			b.WriteString(text[:len(text)-1])
			i++
			text = strings.TrimLeft(physical[i], " \t\f\v")
		}
		b.WriteString(text)
		lines = append(lines, Line{Num: start + 1, Text: b.String()})
	}

	return lines
}

// splitLines splits source into physical lines. A trailing newline
// terminates the last line rather than opening an empty one, so a file
// ending in "\n" yields no final EmptyLine token. "\r\n" endings lose
// their "\r".
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
