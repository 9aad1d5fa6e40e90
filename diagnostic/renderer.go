// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// tabWidth is the number of columns a tab occupies in rendered snippets.
const tabWidth = 4

// Renderer formats diagnostics as annotated source snippets:
//
//	error[undeclared-variable]: variable y is not declared
//	  --> main.tan:2:14
//	   |
//	 2 |    return x + y;
//	   |               ^
//	   |
//	   = note: in f called at main.tan:4:1
type Renderer struct {
	// Color controls ANSI color output. Default is ColorAuto.
	Color ColorMode

	// SourceReader reads source file contents. If nil, os.ReadFile is used.
	SourceReader func(string) ([]byte, error)
}

// Render writes a single diagnostic to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	return r.RenderAll(w, []Diagnostic{d})
}

// RenderAll writes all diagnostics to w separated by blank lines.  Each
// source file is read at most once.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	bw := bufio.NewWriter(w)
	out := &output{w: bw, p: choosePalette(r.Color, fileFromWriter(w))}
	src := &sourceCache{read: r.SourceReader, files: make(map[string][]string)}
	for i, d := range diags {
		if i > 0 {
			out.print("\n")
		}
		out.diagnostic(d, src)
	}
	if out.err != nil {
		return out.err
	}
	return bw.Flush()
}

// Location formats the position of s as file:line:col, omitting the parts
// which are not set.
func (s Span) Location() string {
	switch {
	case s.Line <= 0:
		return s.File
	case s.Col <= 0:
		return s.File + ":" + strconv.Itoa(s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
}

// output writes colored text and keeps the first write error.
type output struct {
	w   io.Writer
	p   palette
	err error
}

func (o *output) printf(format string, a ...interface{}) {
	if o.err == nil {
		_, o.err = fmt.Fprintf(o.w, format, a...)
	}
}

func (o *output) print(s string) {
	if o.err == nil {
		_, o.err = io.WriteString(o.w, s)
	}
}

// gutter writes the line number column followed by rest.
func (o *output) gutter(num string, rest string) {
	o.printf(" %s%s |%s%s\n", o.p.boldBlue, num, o.p.reset, rest)
}

func (o *output) diagnostic(d Diagnostic, src *sourceCache) {
	o.header(d)
	for _, span := range d.Spans {
		o.span(span, src.line(span.File, span.Line))
	}
	for _, note := range d.Notes {
		o.printf("   %s=%s note: %s\n", o.p.boldCyan, o.p.reset, note)
	}
}

func (o *output) header(d Diagnostic) {
	color := o.p.boldRed
	switch d.Severity {
	case SeverityWarning:
		color = o.p.yellow
	case SeverityNote:
		color = o.p.boldCyan
	}
	label := d.Severity.String()
	if d.Code != "" {
		label += "[" + d.Code + "]"
	}
	o.printf("%s%s%s%s: %s%s%s\n", color, o.p.bold, label, o.p.reset, o.p.bold, d.Message, o.p.reset)
}

func (o *output) span(span Span, source string) {
	o.printf("  %s-->%s %s\n", o.p.boldBlue, o.p.reset, span.Location())
	if source == "" {
		o.printf("   %s|%s\n", o.p.boldBlue, o.p.reset)
		return
	}

	num := strconv.Itoa(span.Line)
	blank := strings.Repeat(" ", len(num))
	o.gutter(blank, "")
	o.gutter(num, "  "+strings.ReplaceAll(source, "\t", strings.Repeat(" ", tabWidth)))

	start, width := underline(source, span.Col, span.EndCol)
	mark := fmt.Sprintf("  %s%s%s%s", strings.Repeat(" ", start), o.p.boldRed, strings.Repeat("^", width), o.p.reset)
	if span.Label != "" {
		mark += fmt.Sprintf(" %s%s%s", o.p.boldRed, span.Label, o.p.reset)
	}
	o.gutter(blank, mark)
	o.gutter(blank, "")
}

// underline returns the display offset and width of the marker placed under
// columns col through endCol of source.  When endCol is not set the marker
// covers the token starting at col.
func underline(source string, col, endCol int) (int, int) {
	if col <= 0 {
		col = 1
	}
	if endCol <= 0 {
		endCol = tokenEnd(source, col)
	}
	if endCol < col {
		endCol = col
	}
	var start int
	if col-1 <= len(source) {
		start = displayWidth(source[:col-1])
	}
	return start, endCol - col + 1
}

// sourceCache holds the lines of the files read during one call to
// RenderAll.
type sourceCache struct {
	read  func(string) ([]byte, error)
	files map[string][]string
}

// line returns line n of file, or the empty string when it is not available.
func (c *sourceCache) line(file string, n int) string {
	if n <= 0 || file == "" {
		return ""
	}
	lines, ok := c.files[file]
	if !ok {
		lines = c.load(file)
		c.files[file] = lines
	}
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

func (c *sourceCache) load(file string) []string {
	read := c.read
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return nil
	}
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// tokenEnd returns the 1-based column of the last character of the token
// starting at col.  Words and string literals span several characters and
// two character operators are recognized.  Anything else is one character.
func tokenEnd(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	start := col - 1
	ch, size := utf8.DecodeRuneInString(source[start:])
	end := start + size
	switch {
	case isWordChar(ch):
		for end < len(source) {
			c, n := utf8.DecodeRuneInString(source[end:])
			if !isWordChar(c) && c != '.' {
				break
			}
			end += n
		}
	case ch == '"' || ch == '\'':
		end = closingQuote(source, end, byte(ch))
	case end < len(source) && isOperatorPair(source[start:end+1]):
		end++
	}
	// a 0-based exclusive end is the 1-based inclusive end
	return end
}

// closingQuote returns the index just past the quote which ends the string
// literal whose body starts at i.  Unterminated literals end with the line.
func closingQuote(source string, i int, quote byte) int {
	for i < len(source) {
		switch source[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(source)
}

func isWordChar(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isOperatorPair(s string) bool {
	switch s {
	case "==", "!=", "<=", ">=", "&&", "||", "//", "++", "--",
		"+=", "-=", "*=", "/=", "%=", "#=", "$=":
		return true
	default:
		return false
	}
}

// displayWidth returns the number of columns s occupies once tabs are
// expanded.
func displayWidth(s string) int {
	w := 0
	for _, ch := range s {
		if ch == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

// fileFromWriter returns the file behind w, or nil if w is not a file.
func fileFromWriter(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
