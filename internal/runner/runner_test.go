package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMakefile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

// run executes the runner with an empty config so a config file in the
// working directory cannot leak into the test.
func run(t *testing.T, opts *Options) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Stdout = &stdout
	opts.Stderr = &stderr
	if opts.ConfigPath == "" {
		opts.ConfigPath = writeMakefile(t, t.TempDir(), "makeparse.yml", "")
	}
	code := Run(context.Background(), opts)
	return code, stdout.String(), stderr.String()
}

func TestRunDumpJSON(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "# Build.\nall: dep\n\techo hi\n.PHONY: all\n")

	code, stdout, stderr := run(t, &Options{Files: []string{path}})
	require.Equal(t, ExitOK, code, stderr)

	var tree struct {
		AST []struct {
			Target  string   `json:"target"`
			Deps    []string `json:"deps"`
			Recipe  []string `json:"recipe"`
			Comment []string `json:"comment"`
		} `json:"ast"`
		Phony     []string `json:"phony"`
		Unhandled []string `json:"unhandled"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &tree))
	require.Len(t, tree.AST, 1)
	assert.Equal(t, "all", tree.AST[0].Target)
	assert.Equal(t, []string{"dep"}, tree.AST[0].Deps)
	assert.Equal(t, []string{"echo hi"}, tree.AST[0].Recipe)
	assert.Equal(t, []string{"Build."}, tree.AST[0].Comment)
	assert.Equal(t, []string{"all"}, tree.Phony)
	assert.Nil(t, tree.Unhandled)
	assert.Contains(t, stdout, "\n  \"ast\"")
}

func TestRunDumpUnhandledInResult(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "ifdef X\nA = 1\n")

	code, stdout, stderr := run(t, &Options{Files: []string{path}, Unhandled: true})
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, `unhandled line: \"ifdef X\"`)
}

func TestRunReportsUnhandledOnStderr(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "ifdef X\nA = 1\n")

	code, stdout, stderr := run(t, &Options{Files: []string{path}, Mode: ModePrint})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "A = 1\n", stdout)
	assert.Contains(t, stderr, `Makefile:1: unhandled line: "ifdef X"`)

	code, _, stderr = run(t, &Options{Files: []string{path}, Mode: ModePrint, Quiet: true, Check: true})
	assert.Equal(t, ExitUnhandled, code)
	assert.Empty(t, stderr)
}

func TestRunStrict(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "a:b=c\n")

	code, stdout, stderr := run(t, &Options{Files: []string{path}, Strict: true})
	assert.Equal(t, ExitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ambiguous line (target, variable)")
}

func TestRunHelp(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "# Compile.\nbuild:\n\tgo build\n# Go binary.\nGO ?= go\n")

	code, stdout, _ := run(t, &Options{Files: []string{path}, Mode: ModeHelp})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "\n  Targets\n\n    build  Compile.\n\n  Variables\n\n    GO  Go binary.\n", stdout)

	code, stdout, _ = run(t, &Options{Files: []string{path}, Mode: ModeHelp, MakeHelp: true, Sections: []string{"target"}})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "\nhelp:\n\t@echo \"\"\n\t@echo \"  Targets\"\n\t@echo \"\"\n\t@echo \"    build  Compile.\"\n", stdout)
}

func TestRunKeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	var want strings.Builder
	for _, name := range []string{"a.mk", "b.mk", "c.mk", "d.mk"} {
		src := "V_" + strings.TrimSuffix(name, ".mk") + " = 1\n"
		files = append(files, writeMakefile(t, dir, name, src))
		want.WriteString(src)
	}

	code, stdout, _ := run(t, &Options{Files: files, Mode: ModePrint, Jobs: 2})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, want.String(), stdout)
}

func TestRunMissingFile(t *testing.T) {
	dir := t.TempDir()
	good := writeMakefile(t, dir, "Makefile", "A = 1\n")

	code, stdout, stderr := run(t, &Options{Files: []string{filepath.Join(dir, "nope.mk"), good}, Mode: ModePrint})
	assert.Equal(t, ExitError, code)
	assert.Equal(t, "A = 1\n", stdout)
	assert.Contains(t, stderr, "makeparse: reading")
}

func TestRunResolvesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeMakefile(t, dir, "common.mk", "# Shared flag.\nFLAGS = -v\n")
	path := writeMakefile(t, dir, "Makefile", "include common.mk\n")

	code, stdout, _ := run(t, &Options{Files: []string{path}, Mode: ModePrint})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "include common.mk\n# Shared flag.\nFLAGS = -v\n", stdout)
}

func TestRunStdin(t *testing.T) {
	code, stdout, _ := run(t, &Options{Stdin: strings.NewReader("X := 1\n"), Mode: ModePrint})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "X := 1\n", stdout)
}

func TestRunStdinInclude(t *testing.T) {
	code, _, stderr := run(t, &Options{Stdin: strings.NewReader("include a.mk\n"), Mode: ModePrint})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "include without filename")

	code, stdout, _ := run(t, &Options{Stdin: strings.NewReader("include a.mk\n"), Mode: ModePrint, IgnoreIncludes: true})
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "include a.mk\n", stdout)
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeMakefile(t, dir, "makeparse.yml", "output:\n  format: yaml\n")
	path := writeMakefile(t, dir, "Makefile", "A = 1\n")

	code, stdout, _ := run(t, &Options{Files: []string{path}, ConfigPath: cfgPath})
	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "ast:\n"), stdout)

	// The flag wins over the config file.
	code, stdout, _ = run(t, &Options{Files: []string{path}, ConfigPath: cfgPath, Format: "json", Indent: "\t"})
	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "{\n\t\"ast\""), stdout)
}

func TestRunBadConfig(t *testing.T) {
	code, _, stderr := run(t, &Options{ConfigPath: "/nonexistent/makeparse.yml"})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "config file not found")
}

func TestRunUnknownFormat(t *testing.T) {
	code, _, stderr := run(t, &Options{Format: "xml", Stdin: strings.NewReader("")})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `unknown format "xml"`)
}

func TestRunCanceled(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "A = 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := Run(ctx, &Options{
		Files:      []string{path},
		ConfigPath: writeMakefile(t, t.TempDir(), "makeparse.yml", ""),
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr.String(), "context canceled")
}

func TestRunPrintDiff(t *testing.T) {
	path := writeMakefile(t, t.TempDir(), "Makefile", "A=1\nall:\n")

	code, stdout, stderr := run(t, &Options{Files: []string{path}, Mode: ModePrint, Diff: true})
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stdout, "-A=1\n")
	assert.Contains(t, stdout, "+A = 1\n")

	code, stdout, _ = run(t, &Options{Mode: ModePrint, Diff: true, Stdin: strings.NewReader("A = 1\n")})
	assert.Equal(t, ExitOK, code)
	assert.Empty(t, stdout)
}
