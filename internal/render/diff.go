package render

import (
	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// Diff returns a unified diff from oldText to newText, or "" when they are
// identical.
func Diff(filename, oldText, newText string) (string, error) {
	if oldText == newText {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  contextLines,
	})
}
