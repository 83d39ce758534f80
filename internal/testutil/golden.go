// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// RenderFunc turns Makefile source into the text under test.
type RenderFunc func(t *testing.T, input string) string

// RunGolden runs a single golden file test in the given directory.
// It reads input.mk, applies renderFn, and compares against expected.mk.
func RunGolden(t *testing.T, dir string, renderFn RenderFunc) {
	t.Helper()

	inputPath := filepath.Join(dir, "input.mk")
	expectedPath := filepath.Join(dir, "expected.mk")

	inputBytes, err := os.ReadFile(inputPath)
	require.NoError(t, err, "reading %s", inputPath)

	actual := renderFn(t, string(inputBytes))

	if *Update {
		require.NoError(t, os.WriteFile(expectedPath, []byte(actual), 0o644), "updating %s", expectedPath)
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	require.NoError(t, err, "reading %s", expectedPath)

	assert.Equal(t, string(expectedBytes), actual, "output mismatch for %s", dir)
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, renderFn RenderFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	require.NoError(t, err, "reading testdata dir %s", testdataDir)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			RunGolden(t, filepath.Join(testdataDir, entry.Name()), renderFn)
		})
	}
}
