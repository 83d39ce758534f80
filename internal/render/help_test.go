package render

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/makeparse/internal/parser"
	"github.com/donaldgifford/makeparse/internal/testutil"
)

func parseStrict(t *testing.T, input string) *parser.Result {
	t.Helper()
	res, err := parser.Parse(input, parser.Options{Strict: true, IgnoreIncludes: true})
	require.NoError(t, err)
	return res
}

func testdataDir(elem ...string) string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(append([]string{filepath.Dir(filename), "..", "..", "testdata"}, elem...)...)
}

func TestHelp(t *testing.T) {
	res := parseStrict(t, "# Comment on VAR.\n"+
		"VAR = 23\n"+
		"# Comment on foo\n"+
		"# second line\n"+
		"foo: fizz\\ buzz bar\n"+
		"\tstep 1\n"+
		"bar:\n")

	out, err := Help(res.AST, HelpOptions{Indent: "  ", Sections: []string{"target", "variable"}})
	require.NoError(t, err)
	assert.Equal(t, "\n"+
		"  Targets\n"+
		"\n"+
		"    foo  Comment on foo\n"+
		"         second line\n"+
		"\n"+
		"  Variables\n"+
		"\n"+
		"    VAR  Comment on VAR.\n", out)
}

func TestHelpSectionOrderAndIndent(t *testing.T) {
	res := parseStrict(t, "# a var\nX = 1\n# a target\nall:\n")

	out, err := Help(res.AST, HelpOptions{Indent: "\t", Sections: []string{"variable"}})
	require.NoError(t, err)
	assert.Equal(t, "\n\tVariables\n\n\t\tX  a var\n", out)
}

func TestHelpPadsByDisplayWidth(t *testing.T) {
	res := parseStrict(t, "# wide\n日本: \n# narrow\nab:\n")

	out, err := Help(res.AST, HelpOptions{Sections: []string{"target"}})
	require.NoError(t, err)
	// 日本 is four columns wide, so both comments start at column 6.
	assert.Equal(t, "\nTargets\n\n日本  wide\nab    narrow\n", out)
}

func TestHelpUnknownSection(t *testing.T) {
	_, err := Help(nil, HelpOptions{Sections: []string{"recipe"}})
	assert.ErrorContains(t, err, `unknown help section "recipe"`)
}

func TestEscapeEcho(t *testing.T) {
	assert.Equal(t, `say \"hi\" to $$(USER) \\o/`, escapeEcho(`say "hi" to $(USER) \o/`))
}

func TestMakeHelpGolden(t *testing.T) {
	testutil.RunGoldenDir(t, testdataDir("help"), func(t *testing.T, input string) string {
		out, err := Help(parseStrict(t, input).AST, HelpOptions{
			Indent:   "  ",
			Sections: []string{"target", "variable"},
			MakeHelp: true,
		})
		require.NoError(t, err)
		return out
	})
}
