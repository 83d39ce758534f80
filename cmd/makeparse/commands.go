package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/makeparse/internal/render"
	"github.com/donaldgifford/makeparse/internal/runner"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] [files...]",
	Short: "Dump the token stream and phony set",
	RunE:  runDump,
}

var listCmd = &cobra.Command{
	Use:   "list [flags] [files...]",
	Short: "List documented targets and variables",
	Long: `List prints every target and variable preceded by a comment block,
with the first comment line as its description. With --make-help the
listing is wrapped in a "help:" target ready to paste into a Makefile.`,
	RunE: runList,
}

var printCmd = &cobra.Command{
	Use:   "print [flags] [files...]",
	Short: "Print normalized Makefile text",
	RunE:  runPrint,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "makeparse %s\n", cmd.Root().Version)
	},
}

func init() {
	dumpCmd.Flags().String("format", "", fmt.Sprintf("output format %v (default from config: json)", render.Formats()))
	dumpCmd.Flags().Bool("unhandled", false, "include unhandled-line diagnostics in the dump")

	listCmd.Flags().String("indent", "", `indentation unit (default from config: "  ")`)
	listCmd.Flags().StringSlice("section", nil, "sections to list: target, variable")
	listCmd.Flags().Bool("make-help", false, `wrap the listing in a "help:" target`)

	printCmd.Flags().Bool("diff", false, "print a unified diff against the source instead")
}

func runDump(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(cmd, args, runner.ModeDump)
	if err != nil {
		return err
	}
	if opts.Format, err = cmd.Flags().GetString("format"); err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.Unhandled, err = cmd.Flags().GetBool("unhandled"); err != nil {
		return fmt.Errorf("failed to get unhandled flag: %w", err)
	}
	return execute(cmd, opts)
}

func runList(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(cmd, args, runner.ModeHelp)
	if err != nil {
		return err
	}
	if opts.Indent, err = cmd.Flags().GetString("indent"); err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}
	if opts.Sections, err = cmd.Flags().GetStringSlice("section"); err != nil {
		return fmt.Errorf("failed to get section flag: %w", err)
	}
	if opts.MakeHelp, err = cmd.Flags().GetBool("make-help"); err != nil {
		return fmt.Errorf("failed to get make-help flag: %w", err)
	}
	return execute(cmd, opts)
}

func runPrint(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(cmd, args, runner.ModePrint)
	if err != nil {
		return err
	}
	if opts.Diff, err = cmd.Flags().GetBool("diff"); err != nil {
		return fmt.Errorf("failed to get diff flag: %w", err)
	}
	return execute(cmd, opts)
}
