package parser

import (
	"regexp"
	"strings"
)

// matcher pairs a line pattern with the handler that applies a recognized
// line to the parse state.
type matcher struct {
	name    string
	pattern *regexp.Regexp
	// guard, when set, must accept the current AST tail.
	guard  func(tail Token) bool
	handle func(p *state, m []string) error
}

// match returns the pattern's submatches, or nil when the line is not
// recognized.
func (m *matcher) match(line string, last Token) []string {
	groups := m.pattern.FindStringSubmatch(line)
	if groups == nil {
		return nil
	}
	if m.guard != nil && !m.guard(last) {
		return nil
	}
	return groups
}

// matchers is evaluated in full for every line; exactly one must match.
// It is filled by init because the include handler parses recursively.
var matchers []matcher

func init() {
	matchers = []matcher{
		{
			name:    "empty-line",
			pattern: regexp.MustCompile(`^(?: \s*|#\S*)?$`),
			handle:  handleEmptyLine,
		},
		{
			name:    "export",
			pattern: regexp.MustCompile(`^export(?:\s+([^:?+!=\s]+)(?:\s*(::=|[:?+!]?=)\s*(.*))?)?\s*$`),
			handle:  handleExport,
		},
		{
			name:    "recipe",
			pattern: regexp.MustCompile(`^\t+(.*)$`),
			guard: func(last Token) bool {
				_, ok := last.(*Target)
				return ok
			},
			handle: handleRecipe,
		},
		{
			name:    "comment",
			pattern: regexp.MustCompile(`^# (.*)$`),
			handle:  handleComment,
		},
		{
			name:    "include",
			pattern: regexp.MustCompile(`^(-|s)?include\s+([^=:\s].*?)\s*$`),
			handle:  handleInclude,
		},
		{
			name:    "target",
			pattern: regexp.MustCompile(`^(\S+)\s*:([^=:].*)?$`),
			handle:  handleTarget,
		},
		{
			name:    "variable",
			pattern: regexp.MustCompile(`^([^=\s]+?)\s*(::=|[:?+!]?=)\s*(.*)$`),
			handle:  handleVariable,
		},
	}
}

// includeCommentRe matches a trailing comment after the include paths.
var includeCommentRe = regexp.MustCompile(`\s+#.*$`)

// depRe matches one dependency; a backslash keeps the following blank
// inside the name.
var depRe = regexp.MustCompile(`(?:[^\\\s]|\\\s?)+`)

// Classify returns the names of all matchers that recognize line when last
// is the current AST tail (nil for an empty AST).
func Classify(line string, last Token) []string {
	var names []string
	for i := range matchers {
		if matchers[i].match(line, last) != nil {
			names = append(names, matchers[i].name)
		}
	}
	return names
}

func handleEmptyLine(p *state, _ []string) error {
	p.res.AST = append(p.res.AST, &EmptyLine{})
	return nil
}

func handleExport(p *state, m []string) error {
	tok := &Export{Name: m[1]}
	switch {
	case m[1] == "":
		tok.Global = true
	case m[2] != "":
		value := m[3]
		tok.Op = m[2]
		tok.Value = &value
	}
	p.res.AST = append(p.res.AST, tok)
	return nil
}

func handleRecipe(p *state, m []string) error {
	target := tail(p.res.AST).(*Target)
	target.Recipe = append(target.Recipe, m[1])
	return nil
}

func handleComment(p *state, m []string) error {
	if len(p.res.AST) > p.fence {
		if c, ok := tail(p.res.AST).(*Comment); ok {
			c.Lines = append(c.Lines, m[1])
			return nil
		}
	}
	p.res.AST = append(p.res.AST, &Comment{Lines: []string{m[1]}})
	return nil
}

func handleInclude(p *state, m []string) error {
	tok := &Include{Path: includeCommentRe.ReplaceAllString(m[2], ""), Optional: m[1] != ""}
	p.res.AST, tok.Comment = takeTrailingComment(p.res.AST, p.fence)
	p.res.AST = append(p.res.AST, tok)
	return p.resolve(tok)
}

func handleTarget(p *state, m []string) error {
	deps := splitDeps(m[2])
	if m[1] == ".PHONY" {
		p.res.Phony = append(p.res.Phony, deps...)
		return nil
	}
	tok := &Target{Name: m[1], Deps: deps, Recipe: []string{}}
	p.res.AST, tok.Comment = takeTrailingComment(p.res.AST, p.fence)
	p.res.AST = append(p.res.AST, tok)
	return nil
}

func handleVariable(p *state, m []string) error {
	tok := &Variable{Name: m[1], Op: m[2], Value: m[3]}
	p.res.AST, tok.Comment = takeTrailingComment(p.res.AST, p.fence)
	p.res.AST = append(p.res.AST, tok)
	return nil
}

// splitDeps splits a dependency clause on blanks, keeping backslash-escaped
// blanks inside a single name.
func splitDeps(s string) []string {
	deps := []string{}
	for _, d := range depRe.FindAllString(strings.TrimSpace(s), -1) {
		if d = strings.TrimSpace(d); d != "" {
			deps = append(deps, d)
		}
	}
	return deps
}
