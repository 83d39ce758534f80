// Package parser provides a line-by-line Makefile tokenizer that produces an
// ordered AST and the set of names declared .PHONY.
package parser

import "strings"

// Token is a single parsed element of a Makefile AST.
type Token interface {
	token()
}

// EmptyLine is a blank line or a "#" line carrying no text.
type EmptyLine struct{}

// Comment is a standalone block of "# text" lines that has not been
// attached to a target, variable or include.
type Comment struct {
	Lines []string
}

// Target is a rule definition (name: deps) with its recipe lines.
type Target struct {
	Name    string
	Deps    []string
	Recipe  []string
	Comment []string
}

// Variable is an assignment. Op is the raw operator (=, :=, ::=, ?=, +=, !=).
type Variable struct {
	Name    string
	Op      string
	Value   string
	Comment []string
}

// Export is an export directive. A bare "export" is Global; otherwise Name
// is set and Value is nil when no value was given. Op is the raw assignment
// operator when a value is present.
type Export struct {
	Global bool
	Name   string
	Op     string
	Value  *string
}

// Include is an include directive. Optional marks the -include and
// sinclude forms, for which a missing file is not an error.
type Include struct {
	Path     string
	Optional bool
	Comment  []string
}

func (*EmptyLine) token() {}
func (*Comment) token()   {}
func (*Target) token()    {}
func (*Variable) token()  {}
func (*Export) token()    {}
func (*Include) token()   {}

// Result is the outcome of a parse.
type Result struct {
	AST   []Token
	Phony []string

	// Unhandled lists diagnostics for unrecognized and ambiguous lines.
	// It is only filled when Options.Unhandled is set.
	Unhandled []string
}

// Paths splits the include path list on whitespace.
func (i *Include) Paths() []string {
	return strings.Fields(i.Path)
}

// tail returns the last token of ast, or nil.
func tail(ast []Token) Token {
	if len(ast) == 0 {
		return nil
	}
	return ast[len(ast)-1]
}

// takeTrailingComment pops a bare Comment from the end of ast. Tokens before
// fence belong to an already closed file and are never taken.
func takeTrailingComment(ast []Token, fence int) ([]Token, []string) {
	if len(ast) <= fence {
		return ast, nil
	}
	c, ok := tail(ast).(*Comment)
	if !ok {
		return ast, nil
	}
	return ast[:len(ast)-1], c.Lines
}
