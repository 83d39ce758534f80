// Package render turns parse results into help listings, Makefile text and
// structured dumps.
package render

import (
	"github.com/donaldgifford/makeparse/internal/parser"
)

// Tree converts a parse result into plain maps and slices, the shape every
// dump encoder writes. Diagnostics are included when withUnhandled is set.
func Tree(res *parser.Result, withUnhandled bool) map[string]any {
	ast := make([]any, 0, len(res.AST))
	for _, tok := range res.AST {
		ast = append(ast, tokenTree(tok))
	}

	out := map[string]any{
		"ast":   ast,
		"phony": orEmpty(res.Phony),
	}
	if withUnhandled {
		out["unhandled"] = orEmpty(res.Unhandled)
	}
	return out
}

func tokenTree(tok parser.Token) map[string]any {
	switch t := tok.(type) {
	case *parser.EmptyLine:
		return map[string]any{"emptyLine": true}

	case *parser.Comment:
		return map[string]any{"comment": t.Lines}

	case *parser.Target:
		return withComment(map[string]any{
			"target": t.Name,
			"deps":   orEmpty(t.Deps),
			"recipe": orEmpty(t.Recipe),
		}, t.Comment)

	case *parser.Variable:
		return withComment(map[string]any{
			"variable": t.Name,
			"op":       t.Op,
			"value":    t.Value,
		}, t.Comment)

	case *parser.Export:
		if t.Global {
			return map[string]any{"export": map[string]any{"global": true}}
		}
		var value any
		if t.Value != nil {
			value = *t.Value
		}
		m := map[string]any{
			"variable": t.Name,
			"value":    value,
		}
		if t.Op != "" {
			m["op"] = t.Op
		}
		return map[string]any{"export": m}

	case *parser.Include:
		m := map[string]any{"include": t.Path}
		if t.Optional {
			m["optional"] = true
		}
		return withComment(m, t.Comment)
	}
	return nil
}

func withComment(m map[string]any, comment []string) map[string]any {
	if comment != nil {
		m["comment"] = comment
	}
	return m
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
