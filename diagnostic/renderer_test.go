// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRenderer returns a Renderer with colors disabled and a fake source reader.
func testRenderer(sources map[string]string) *Renderer {
	return &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			s, ok := sources[name]
			if !ok {
				return nil, errors.New("not found: " + name)
			}
			return []byte(s), nil
		},
	}
}

func TestRenderError(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.tan": "let total = price * qty;",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Code:     "undeclared-variable",
		Message:  "variable price is not declared",
		Spans: []Span{
			{File: "test.tan", Line: 1, Col: 13, Label: "not declared in this scope"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	got := buf.String()

	// Verify key structural elements
	assert.Contains(t, got, "error[undeclared-variable]: variable price is not declared")
	assert.Contains(t, got, "--> test.tan:1:13")
	assert.Contains(t, got, "let total = price * qty;")
	assert.Contains(t, got, "            ^^^^^ not declared in this scope")
	assert.NotContains(t, got, "^^^^^^")
}

func TestRenderWarning(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.tan": "let x = 1;\nif (true) { x = 2; }",
	})

	d := Diagnostic{
		Severity: SeverityWarning,
		Message:  "condition is always true",
		Spans: []Span{
			{File: "test.tan", Line: 2, Col: 5, EndCol: 8},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	got := buf.String()
	assert.Contains(t, got, "warning: condition is always true")
	assert.Contains(t, got, "--> test.tan:2:5")
	assert.Contains(t, got, "if (true) { x = 2; }")
	assert.Contains(t, got, "    ^^^^\n")
}

func TestRenderNoSource(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "some error",
		Spans: []Span{
			{File: "<stdin>", Line: 5, Col: 3},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	got := buf.String()
	assert.Contains(t, got, "error: some error")
	assert.Contains(t, got, "--> <stdin>:5:3")
	// Should have a gutter but no source line
	assert.Contains(t, got, "|")
	assert.NotContains(t, got, "^")
}

func TestRenderNotes(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.tan": "function f(n) { return g(n); }",
	})

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "function g is not declared",
		Spans: []Span{
			{File: "test.tan", Line: 1, Col: 24},
		},
		Notes: []string{
			"in f at test.tan:2:1",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	got := buf.String()
	assert.Contains(t, got, "= note: in f at test.tan:2:1")
	assert.Contains(t, got, "^\n")
	assert.NotContains(t, got, "^^")
}

func TestTokenEnd(t *testing.T) {
	tests := []struct {
		source string
		col    int
		end    int
	}{
		{`let total = 1;`, 5, 9},
		{`let total = 1;`, 13, 13},
		{`x = 12.5 + y;`, 5, 8},
		{`print("a b");`, 7, 11},
		{`print('it\'s');`, 7, 13},
		{`print("open`, 7, 11},
		{`a == b`, 3, 4},
		{`y $= #x;`, 3, 4},
		{`y $= #x;`, 6, 6},
		{`o.attr;`, 1, 6},
		{`a + b`, 3, 3},
		{`abc`, 9, 9},
	}
	for _, test := range tests {
		assert.Equal(t, test.end, tokenEnd(test.source, test.col), "%q col %d", test.source, test.col)
	}
}

func TestRenderTabs(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.tan": "\tx;",
	})
	d := Diagnostic{
		Severity: SeverityError,
		Spans:    []Span{{File: "test.tan", Line: 1, Col: 2}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	assert.Contains(t, buf.String(), "      x;")
	assert.Contains(t, buf.String(), "      ^\n")
}

func TestRenderMultipleDiagnostics(t *testing.T) {
	r := testRenderer(map[string]string{
		"test.tan": "for (;;) {}\nx #= 1;",
	})

	diags := []Diagnostic{
		{
			Severity: SeverityError,
			Message:  "unsupported: for loop",
			Spans:    []Span{{File: "test.tan", Line: 1, Col: 1}},
		},
		{
			Severity: SeverityError,
			Message:  "unsupported: signal assignment",
			Spans:    []Span{{File: "test.tan", Line: 2, Col: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))

	got := buf.String()
	// Should have both diagnostics separated by blank line
	assert.GreaterOrEqual(t, len(strings.Split(got, "\n\n")), 2, got)
	assert.Contains(t, got, "unsupported: for loop")
	assert.Contains(t, got, "unsupported: signal assignment")
}

func TestRenderNoSpans(t *testing.T) {
	r := testRenderer(nil)

	d := Diagnostic{
		Severity: SeverityError,
		Message:  "unable to read main.tan: file does not exist",
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))

	got := buf.String()
	assert.Contains(t, got, "error: unable to read main.tan: file does not exist")
	// Should be just the header, no arrows or source
	assert.NotContains(t, got, "-->")
}

func TestRenderColor(t *testing.T) {
	r := testRenderer(nil)
	r.Color = ColorAlways
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{Message: "boom"}))
	assert.Contains(t, buf.String(), "\033[1;31m")

	assert.Equal(t, ColorNever, ParseColorMode("never"))
	assert.Equal(t, ColorAlways, ParseColorMode("always"))
	assert.Equal(t, ColorAuto, ParseColorMode(""))
}

func TestRenderReadsSourceOnce(t *testing.T) {
	reads := 0
	r := &Renderer{
		Color: ColorNever,
		SourceReader: func(name string) ([]byte, error) {
			reads++
			return []byte("a;\r\nb;\r\n"), nil
		},
	}
	diags := []Diagnostic{
		{Message: "first", Spans: []Span{{File: "x.tan", Line: 1, Col: 1}}},
		{Message: "second", Spans: []Span{{File: "x.tan", Line: 2, Col: 1}}},
		{Message: "third", Spans: []Span{{File: "x.tan", Line: 9, Col: 1}}},
	}
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, diags))
	assert.Equal(t, 1, reads)
	assert.Contains(t, buf.String(), " 2 |  b;\n")
	assert.NotContains(t, buf.String(), "\r")
}

func TestRenderReadsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.tan")
	require.NoError(t, os.WriteFile(path, []byte("let x = y;\n"), 0600))
	r := &Renderer{Color: ColorNever}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, Diagnostic{
		Message: "variable y is not declared",
		Spans:   []Span{{File: path, Line: 1, Col: 9}},
	}))
	assert.Contains(t, buf.String(), " 1 |  let x = y;\n")
	assert.Contains(t, buf.String(), "         ^\n")
}

func TestSpanLocation(t *testing.T) {
	assert.Equal(t, "a.tan", Span{File: "a.tan"}.Location())
	assert.Equal(t, "a.tan:3", Span{File: "a.tan", Line: 3}.Location())
	assert.Equal(t, "a.tan:3:7", Span{File: "a.tan", Line: 3, Col: 7}.Location())
}
