// Package runner orchestrates the read -> parse -> render -> output pipeline.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/makeparse/internal/config"
	"github.com/donaldgifford/makeparse/internal/parser"
	"github.com/donaldgifford/makeparse/internal/render"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUnhandled = 1
	ExitError     = 2
)

// Mode selects what is written for each parsed file.
type Mode string

// Output modes.
const (
	ModeDump  Mode = "dump"  // Structured dump of the AST and phony set.
	ModeHelp  Mode = "help"  // Listing of documented targets and variables.
	ModePrint Mode = "print" // Normalized Makefile text.
)

// Options configures the runner behavior. Zero-valued output settings fall
// back to the config file; boolean parser settings are OR'ed with it.
type Options struct {
	Files      []string
	Mode       Mode
	ConfigPath string

	Strict         bool
	Unhandled      bool
	IgnoreIncludes bool

	Format   string
	Indent   string
	Sections []string
	MakeHelp bool
	Diff     bool // Print mode writes a unified diff against the source.

	Check   bool // Exit 1 when a file has unhandled or ambiguous lines.
	Jobs    int  // Files parsed concurrently; <= 0 means GOMAXPROCS.
	Color   bool
	Quiet   bool
	Verbose bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// fileResult is the outcome of parsing one input.
type fileResult struct {
	name string
	src  *string // Set for stdin; files are re-read on demand.
	res  *parser.Result
	err  error
}

// Run executes the pipeline and returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Mode == "" {
		opts.Mode = ModeDump
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		writeErr(opts.Stderr, "makeparse: %v\n", err)
		return ExitError
	}
	applyOverrides(cfg, opts)

	out, err := newOutput(cfg, opts)
	if err != nil {
		writeErr(opts.Stderr, "makeparse: %v\n", err)
		return ExitError
	}

	parseOpts := parser.Options{
		Strict:         cfg.Parser.Strict,
		Unhandled:      true,
		IgnoreIncludes: cfg.Parser.IgnoreIncludes,
		Logger:         opts.logger(),
	}

	var results []fileResult
	if len(opts.Files) == 0 {
		results = []fileResult{parseStdin(opts.Stdin, parseOpts)}
	} else {
		results, err = parseFiles(ctx, opts.Files, opts.Jobs, parseOpts)
		if err != nil {
			writeErr(opts.Stderr, "makeparse: %v\n", err)
			return ExitError
		}
	}

	exitCode := ExitOK
	for _, r := range results {
		code := out.emit(r)
		if code > exitCode {
			exitCode = code
		}
	}
	return exitCode
}

// applyOverrides folds command-line settings into cfg.
func applyOverrides(cfg *config.Config, opts *Options) {
	cfg.Parser.Strict = cfg.Parser.Strict || opts.Strict
	cfg.Parser.Unhandled = cfg.Parser.Unhandled || opts.Unhandled
	cfg.Parser.IgnoreIncludes = cfg.Parser.IgnoreIncludes || opts.IgnoreIncludes
	cfg.Output.MakeHelp = cfg.Output.MakeHelp || opts.MakeHelp

	if opts.Format != "" {
		cfg.Output.Format = opts.Format
	}
	if opts.Indent != "" {
		cfg.Output.Indent = opts.Indent
	}
	if len(opts.Sections) > 0 {
		cfg.Output.Sections = opts.Sections
	}
}

func (opts *Options) logger() *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseStdin(stdin io.Reader, parseOpts parser.Options) fileResult {
	src, err := io.ReadAll(stdin)
	if err != nil {
		return fileResult{name: "<stdin>", err: fmt.Errorf("reading stdin: %w", err)}
	}
	text := string(src)
	res, err := parser.Parse(text, parseOpts)
	return fileResult{name: "<stdin>", src: &text, res: res, err: err}
}

// parseFiles parses every file concurrently. Per-file failures are kept in
// the results; only cancellation aborts the whole run.
func parseFiles(ctx context.Context, files []string, jobs int, parseOpts parser.Options) ([]fileResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each goroutine writes only its own index.
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := parser.ParseFile(path, parseOpts)
			results[i] = fileResult{name: path, res: res, err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r fileResult) source() (string, error) {
	if r.src != nil {
		return *r.src, nil
	}
	data, err := os.ReadFile(r.name)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", r.name, err)
	}
	return string(data), nil
}

// output writes parse results in the selected mode.
type output struct {
	opts    *Options
	cfg     *config.Config
	encoder render.Encoder
	warn    *color.Color
	fail    *color.Color
}

func newOutput(cfg *config.Config, opts *Options) (*output, error) {
	o := &output{
		opts: opts,
		cfg:  cfg,
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed, color.Bold),
	}
	if opts.Color {
		o.warn.EnableColor()
		o.fail.EnableColor()
	} else {
		o.warn.DisableColor()
		o.fail.DisableColor()
	}

	switch opts.Mode {
	case ModeDump:
		enc, err := render.LookupEncoder(cfg.Output.Format)
		if err != nil {
			return nil, err
		}
		if _, ok := enc.(render.JSON); ok {
			enc = render.JSON{Indent: cfg.Output.Indent}
		}
		o.encoder = enc
	case ModeHelp, ModePrint:
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.Mode)
	}
	return o, nil
}

func (o *output) emit(r fileResult) int {
	if o.opts.Verbose {
		writeErr(o.opts.Stderr, "%s\n", r.name)
	}
	if r.err != nil {
		o.fail.Fprintf(o.opts.Stderr, "makeparse: %v\n", r.err)
		return ExitError
	}

	// Diagnostics go to stderr unless the dump carries them.
	inDump := o.opts.Mode == ModeDump && o.cfg.Parser.Unhandled
	if !inDump && !o.opts.Quiet {
		for _, d := range r.res.Unhandled {
			o.warn.Fprintf(o.opts.Stderr, "makeparse: %s\n", d)
		}
	}

	if err := o.write(r); err != nil {
		o.fail.Fprintf(o.opts.Stderr, "makeparse: %s: %v\n", r.name, err)
		return ExitError
	}

	if o.opts.Check && len(r.res.Unhandled) > 0 {
		return ExitUnhandled
	}
	return ExitOK
}

func (o *output) write(r fileResult) error {
	res := r.res
	switch o.opts.Mode {
	case ModeHelp:
		text, err := render.Help(res.AST, render.HelpOptions{
			Indent:   o.cfg.Output.Indent,
			Sections: o.cfg.Output.Sections,
			MakeHelp: o.cfg.Output.MakeHelp,
		})
		if err != nil {
			return err
		}
		writeOut(o.opts.Stdout, text)
		return nil
	case ModePrint:
		text := render.Write(res)
		if !o.opts.Diff {
			writeOut(o.opts.Stdout, text)
			return nil
		}
		src, err := r.source()
		if err != nil {
			return err
		}
		d, err := render.Diff(r.name, src, text)
		if err != nil {
			return err
		}
		writeOut(o.opts.Stdout, d)
		return nil
	default:
		return o.encoder.Encode(o.opts.Stdout, render.Tree(res, o.cfg.Parser.Unhandled))
	}
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
