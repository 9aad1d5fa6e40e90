// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from a byte stream (io.Reader).
// The stream is read fully on construction; TanScript programs are small
// and the parser needs arbitrary lookahead over the token stream anyway.
type Scanner struct {
	file string
	path string

	buf     []byte
	readErr error

	start int // byte offset of the current token
	next  int // byte offset of the rune following the last scanned rune
	c     Rune

	line      int // line of the rune at next
	col       int // column of the rune at next
	startLine int
	startCol  int
}

// NewScanner initializes and returns a new Scanner.
func NewScanner(file string, r io.Reader) *Scanner {
	buf, err := io.ReadAll(r)
	s := &Scanner{
		file:      file,
		buf:       buf,
		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}
	if err != nil {
		s.readErr = err
	}
	return s
}

// SetPath associates a physical location (e.g. filesystem path) with s.
func (s *Scanner) SetPath(path string) {
	s.path = path
}

// EmitToken returns a token containing the text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.next
	s.startLine = s.line
	s.startCol = s.col
}

// Text returns a string containing text scanned since the last call to either
// EmitToken or Ignore.
func (s *Scanner) Text() string {
	return string(s.buf[s.start:s.next])
}

// Rune returns the last rune that was scanned.
func (s *Scanner) Rune() rune {
	return s.c.C
}

// Peek returns the next rune to be scanned.  Peek returns a false second
// value at the end of input or when the input is not valid utf-8.
func (s *Scanner) Peek() (rune, bool) {
	if s.next >= len(s.buf) {
		return 0, false
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	if (Rune{c, n}).IsRuneError() {
		return utf8.RuneError, false
	}
	return c, true
}

// PeekN returns the rune n runes beyond the next rune (PeekN(0) == Peek()).
func (s *Scanner) PeekN(n int) (rune, bool) {
	pos := s.next
	for i := 0; ; i++ {
		if pos >= len(s.buf) {
			return 0, false
		}
		c, size := utf8.DecodeRune(s.buf[pos:])
		if (Rune{c, size}).IsRuneError() {
			return utf8.RuneError, false
		}
		if i == n {
			return c, true
		}
		pos += size
	}
}

// ScanRune attempts to scan a utf-8 rune from the input for inclusion in the
// current token.
func (s *Scanner) ScanRune() error {
	if s.readErr != nil {
		return s.readErr
	}
	if s.next >= len(s.buf) {
		return io.EOF
	}
	c, n := utf8.DecodeRune(s.buf[s.next:])
	r := Rune{c, n}
	if r.IsRuneError() {
		return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
	}
	s.c = r
	s.next += n
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return nil
}

// Err returns an error encountered while reading the input stream or
// decoding the rune that follows the scanned text.
func (s *Scanner) Err() error {
	if s.readErr != nil {
		return s.readErr
	}
	if s.next < len(s.buf) {
		if _, ok := s.Peek(); !ok {
			return fmt.Errorf("invalid utf-8 sequence in source text starting with byte %q", s.buf[s.next])
		}
	}
	return nil
}

// EOF reports whether every byte of input has been scanned.
func (s *Scanner) EOF() bool {
	return s.next >= len(s.buf)
}

func (s *Scanner) Accept(fn func(rune) bool) bool {
	peek, ok := s.Peek()
	if !ok || !fn(peek) {
		return false
	}
	return s.ScanRune() == nil
}

func (s *Scanner) AcceptRune(c rune) bool {
	return s.Accept(func(r rune) bool { return r == c })
}

func (s *Scanner) AcceptDigit() bool {
	return s.Accept(func(r rune) bool { return '0' <= r && r <= '9' })
}

func (s *Scanner) AcceptSpace() bool {
	return s.Accept(unicode.IsSpace)
}

func (s *Scanner) AcceptAny(charset string) bool {
	return s.Accept(func(r rune) bool { return strings.ContainsRune(charset, r) })
}

func (s *Scanner) AcceptSeq(fn func(rune) bool) int {
	var n int
	for s.Accept(fn) {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqDigit() int {
	var n int
	for s.AcceptDigit() {
		n++
	}
	return n
}

func (s *Scanner) AcceptSeqSpace() int {
	var n int
	for s.AcceptSpace() {
		n++
	}
	return n
}

// AcceptString scans literal if the upcoming input matches it exactly.
func (s *Scanner) AcceptString(literal string) bool {
	if !strings.HasPrefix(string(s.buf[s.next:]), literal) {
		return false
	}
	for range literal {
		if s.ScanRune() != nil {
			return false
		}
	}
	return true
}

// LocStart returns a Location referencing the beginning of the current token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.start,
		Line: s.startLine,
		Col:  s.startCol,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Path: s.path,
		Pos:  s.next,
		Line: s.line,
		Col:  s.col,
	}
}

// Rune contains a rune that read by Scanner during peeking operations.
type Rune struct {
	C rune
	N int
}

// IsRuneError returns true if Rune represents an invalid utf-8 sequence read
// by utf8.DecodeRune.
func (r Rune) IsRuneError() bool {
	return r.C == utf8.RuneError && r.N == 1
}
