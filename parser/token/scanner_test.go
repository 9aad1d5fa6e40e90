// Copyright © 2018 The ELPS authors

package token

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerEOF(t *testing.T) {
	s := NewScanner("", strings.NewReader(strings.Repeat("x", 10)))
	for i := 0; i < 10; i++ {
		err := s.ScanRune()
		if err != nil {
			t.Fatalf("Scan failure: %v", err)
		}
	}
	s.EmitToken(0)

	for i := 0; i < 3; i++ {
		tok := s.EmitToken(0)
		if tok.Text != "" {
			t.Errorf("Bad token text: %q", tok.Text)
		}
		err := s.ScanRune()
		if err != io.EOF {
			t.Fatalf("Not EOF: %q %v", s.Rune(), err)
		}
		if !s.EOF() {
			t.Fatalf("Scanner does not think it is EOF")
		}
	}
}

func TestScannerAcceptSeq(t *testing.T) {
	s := NewScanner("", strings.NewReader("xxxx123 "))
	assert.Equal(t, 4, s.AcceptSeq(func(c rune) bool { return c == 'x' }))
	assert.Equal(t, 3, s.AcceptSeqDigit())
	assert.Equal(t, "xxxx123", s.Text())
	s.Ignore()
	assert.Equal(t, 1, s.AcceptSeqSpace())
	s.Ignore()
	if s.Accept(func(c rune) bool { return true }) {
		t.Fatal("not EOF")
	}
	if !s.EOF() {
		t.Fatal("not EOF")
	}
}

func TestScannerAcceptString(t *testing.T) {
	s := NewScanner("", strings.NewReader("/* x */"))
	assert.False(t, s.AcceptString("*/"))
	assert.True(t, s.AcceptString("/*"))
	assert.Equal(t, "/*", s.Text())
	c, ok := s.PeekN(1)
	assert.True(t, ok)
	assert.Equal(t, 'x', c)
	_, ok = s.PeekN(10)
	assert.False(t, ok)
}

func TestScannerInvalidUTF8(t *testing.T) {
	s := NewScanner("", strings.NewReader("a\xffb"))
	require.NoError(t, s.ScanRune())
	_, ok := s.Peek()
	assert.False(t, ok)
	assert.Error(t, s.Err())
	assert.Error(t, s.ScanRune())
}

func TestScannerLoc(t *testing.T) {
	s := NewScanner("test", strings.NewReader(strings.Repeat("123456789\n", 3)))

	var tokens []*Token
	scan := func(n int, typ Type) {
		for i := 0; i < n; i++ {
			err := s.ScanRune()
			if err != nil {
				t.Fatalf("Scan failure: %v", err)
			}
		}
		tokens = append(tokens, s.EmitToken(typ))
	}
	scan(10, 0)
	scan(10, 1)
	scan(5, 2)
	scan(4, 3)

	assert.Equal(t, 0, tokens[0].Source.Pos)
	assert.Equal(t, 10, tokens[1].Source.Pos)
	assert.Equal(t, 20, tokens[2].Source.Pos)
	assert.Equal(t, 25, tokens[3].Source.Pos)
	assert.Equal(t, "test:1:1", tokens[0].Source.String())
	assert.Equal(t, "test:2:1", tokens[1].Source.String())
	assert.Equal(t, "test:3:1", tokens[2].Source.String())
	assert.Equal(t, "test:3:6", tokens[3].Source.String())
	assert.Equal(t, "test:3:10", s.Loc().String())
}
