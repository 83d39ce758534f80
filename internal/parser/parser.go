package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
)

// Options configures a parse.
type Options struct {
	// Strict makes unhandled and ambiguous lines abort the parse.
	Strict bool
	// Unhandled collects diagnostics for skipped lines in Result.Unhandled
	// instead of logging them.
	Unhandled bool
	// IsFilename treats the source passed to Parse as a path to read.
	IsFilename bool
	// IgnoreIncludes keeps include tokens without loading the files they
	// name. It is required to parse raw text containing includes.
	IgnoreIncludes bool

	// Loader reads source files. Defaults to OSLoader.
	Loader Loader
	// Logger receives skipped-line warnings and include tracing. Defaults
	// to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Loader == nil {
		o.Loader = OSLoader{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Parse tokenizes a Makefile. With opts.IsFilename, source is a path read
// through opts.Loader; otherwise it is the Makefile text itself.
func Parse(source string, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	if !opts.IsFilename {
		return parseText(source, "", nil, &opts)
	}

	path := opts.Loader.Resolve("", source)
	src, err := opts.Loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return parseText(src, path, nil, &opts)
}

// ParseFile reads and tokenizes the Makefile at path.
func ParseFile(path string, opts Options) (*Result, error) {
	opts.IsFilename = true
	return Parse(path, opts)
}

// state tracks one parse pass. Every recursive include gets its own.
type state struct {
	opts  *Options
	file  string   // Empty for raw text.
	chain []string // Files being parsed, outermost first, ending with file.
	line  Line     // Line being handled.
	res   *Result
	fence int // AST length after the last spliced include.
}

func parseText(src, file string, chain []string, opts *Options) (*Result, error) {
	p := &state{
		opts: opts,
		file: file,
		res:  &Result{AST: []Token{}, Phony: []string{}},
	}
	if file != "" {
		p.chain = append(slices.Clone(chain), file)
	}

	for _, line := range JoinLines(src) {
		if err := p.process(line); err != nil {
			return nil, err
		}
	}

	return p.res, nil
}

// process classifies one logical line. Every matcher is tried so that
// ambiguity is detected; only a unique match is applied.
func (p *state) process(line Line) error {
	last := tail(p.res.AST)

	var (
		hit    *matcher
		groups []string
		names  []string
	)
	for i := range matchers {
		m := &matchers[i]
		if g := m.match(line.Text, last); g != nil {
			hit, groups = m, g
			names = append(names, m.name)
		}
	}

	switch len(names) {
	case 1:
		p.line = line
		return hit.handle(p, groups)
	case 0:
		return p.skip(&LineError{File: p.file, Line: line.Num, Text: line.Text, Err: ErrUnhandledLine})
	default:
		return p.skip(&LineError{File: p.file, Line: line.Num, Text: line.Text, Matchers: names, Err: ErrAmbiguousLine})
	}
}

// skip applies the unhandled/ambiguous policy: fail in strict mode,
// otherwise record or log the line and move on.
func (p *state) skip(e *LineError) error {
	switch {
	case p.opts.Strict:
		return e
	case p.opts.Unhandled:
		p.res.Unhandled = append(p.res.Unhandled, e.Error())
	default:
		p.opts.Logger.Warn("skipping line",
			slog.String("file", p.file),
			slog.Int("line", e.Line),
			slog.String("reason", e.Err.Error()),
			slog.String("text", e.Text))
	}
	return nil
}

// resolve parses the files named by inc and splices their tokens, phony
// names and diagnostics in right after inc.
func (p *state) resolve(inc *Include) error {
	if p.opts.IgnoreIncludes {
		return nil
	}
	if p.file == "" {
		return &IncludeError{Line: p.line.Num, Path: inc.Path, Err: ErrIncludeWithoutFilename}
	}

	for _, name := range inc.Paths() {
		path := p.opts.Loader.Resolve(p.file, name)
		if slices.Contains(p.chain, path) {
			return &IncludeError{File: p.file, Line: p.line.Num, Path: path, Err: ErrCyclicInclude}
		}

		src, err := p.opts.Loader.Load(path)
		if err != nil {
			if inc.Optional && errors.Is(err, fs.ErrNotExist) {
				p.opts.Logger.Debug("optional include not found",
					slog.String("file", p.file),
					slog.String("path", path))
				continue
			}
			return &IncludeError{File: p.file, Line: p.line.Num, Path: path, Err: err}
		}

		p.opts.Logger.Debug("including file",
			slog.String("file", p.file),
			slog.String("path", path),
			slog.Int("depth", len(p.chain)))

		sub, err := parseText(src, path, p.chain, p.opts)
		if err != nil {
			return err
		}
		p.merge(sub)
	}

	return nil
}

func (p *state) merge(sub *Result) {
	p.res.AST = append(p.res.AST, sub.AST...)
	p.res.Phony = append(p.res.Phony, sub.Phony...)
	p.res.Unhandled = append(p.res.Unhandled, sub.Unhandled...)
	p.fence = len(p.res.AST)
}
