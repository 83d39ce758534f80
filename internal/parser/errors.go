package parser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnhandledLine means no matcher recognized a line.
	ErrUnhandledLine = errors.New("unhandled line")
	// ErrAmbiguousLine means more than one matcher recognized a line.
	ErrAmbiguousLine = errors.New("ambiguous line")
	// ErrIncludeWithoutFilename means an include was found while parsing
	// text with no known source path.
	ErrIncludeWithoutFilename = errors.New("include without filename")
	// ErrCyclicInclude means an included file includes itself, directly or
	// through other files.
	ErrCyclicInclude = errors.New("cyclic include")
)

// LineError reports a line that could not be classified.
type LineError struct {
	File     string   // Empty when parsing raw text.
	Line     int      // 1-indexed physical line.
	Text     string   // The logical line.
	Matchers []string // Names of the matchers that recognized the line.
	Err      error    // ErrUnhandledLine or ErrAmbiguousLine.
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if len(e.Matchers) > 0 {
		return fmt.Sprintf("%s: %v (%s): %q", location(e.File, e.Line), e.Err, strings.Join(e.Matchers, ", "), e.Text)
	}
	return fmt.Sprintf("%s: %v: %q", location(e.File, e.Line), e.Err, e.Text)
}

// Unwrap returns the underlying sentinel error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// IncludeError reports an include directive that could not be resolved.
type IncludeError struct {
	File string // The including file; empty when parsing raw text.
	Line int
	Path string // The include path being resolved.
	Err  error
}

// Error implements the error interface.
func (e *IncludeError) Error() string {
	return fmt.Sprintf("%s: include %s: %v", location(e.File, e.Line), e.Path, e.Err)
}

// Unwrap returns the cause: a sentinel error or the loader's error.
func (e *IncludeError) Unwrap() error {
	return e.Err
}

func location(file string, line int) string {
	if file == "" {
		return fmt.Sprintf("line %d", line)
	}
	return fmt.Sprintf("%s:%d", file, line)
}
