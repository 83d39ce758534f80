// Package main is the entry point for makeparse.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/donaldgifford/makeparse/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "makeparse",
	Short: "Tokenize Makefiles",
	Long: `makeparse splits Makefiles into targets, variables, recipes, comments,
exports and includes, and renders them as a dump, a help listing or
normalized Makefile text. With no files, reads from stdin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a runner exit code out of cobra.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version, commit, date)

	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to config file")
	flags.Bool("strict", false, "fail on unhandled or ambiguous lines")
	flags.Bool("ignore-includes", false, "do not load included files")
	flags.Bool("check", false, "exit 1 if any line was unhandled or ambiguous")
	flags.IntP("jobs", "j", 0, "files parsed concurrently (0 = GOMAXPROCS)")
	flags.String("color", "auto", "colorize diagnostics (auto|on|off)")
	flags.BoolP("quiet", "q", false, "suppress diagnostics")
	flags.BoolP("verbose", "v", false, "print files as they are processed")

	if err := rootCmd.Execute(); err != nil {
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "makeparse: %v\n", err)
		os.Exit(runner.ExitError)
	}
}

// baseOptions reads the persistent flags shared by every subcommand.
func baseOptions(cmd *cobra.Command, args []string, mode runner.Mode) (*runner.Options, error) {
	flags := cmd.Flags()
	opts := &runner.Options{Files: args, Mode: mode}

	var err error
	if opts.ConfigPath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	if opts.Strict, err = flags.GetBool("strict"); err != nil {
		return nil, err
	}
	if opts.IgnoreIncludes, err = flags.GetBool("ignore-includes"); err != nil {
		return nil, err
	}
	if opts.Check, err = flags.GetBool("check"); err != nil {
		return nil, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, err
	}
	if opts.Quiet, err = flags.GetBool("quiet"); err != nil {
		return nil, err
	}
	if opts.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, err
	}
	switch colorFlag {
	case "on":
		opts.Color = true
	case "off":
	case "auto":
		opts.Color = isTerminal(os.Stderr)
	default:
		return nil, fmt.Errorf("invalid --color %q (want auto, on or off)", colorFlag)
	}

	return opts, nil
}

// execute runs the pipeline and turns a non-zero exit code into an error.
func execute(cmd *cobra.Command, opts *runner.Options) error {
	if code := runner.Run(cmd.Context(), opts); code != runner.ExitOK {
		return exitError{code: code}
	}
	return nil
}

// isTerminal reports whether f is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
