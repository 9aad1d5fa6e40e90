// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"unicode"

	"github.com/tanndlin/tanscript/parser/token"
)

// Lexer converts scanned runes into TanScript tokens.  Whitespace and
// /* ... */ comments are discarded.
type Lexer struct {
	scanner *token.Scanner
	final   *token.Token
}

type alt struct {
	c   rune
	typ token.Type
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next token in the stream.  Once a token with type
// token.EOF or token.ERROR has been returned, every subsequent call returns
// a token of the same type.
func (lex *Lexer) ReadToken() *token.Token {
	if lex.final != nil {
		tok := *lex.final
		return &tok
	}
	tok := lex.readToken()
	if tok.Type == token.EOF || tok.Type == token.ERROR {
		lex.final = tok
	}
	return tok
}

// ReadAll returns every remaining token, up to and including the EOF or
// first ERROR token.
func (lex *Lexer) ReadAll() []*token.Token {
	var toks []*token.Token
	for {
		tok := lex.ReadToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF || tok.Type == token.ERROR {
			return toks
		}
	}
}

func (lex *Lexer) readToken() *token.Token {
	if tok := lex.skipIgnored(); tok != nil {
		return tok
	}
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		return lex.emitError(lex.scanner.Err())
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '{':
		return lex.emitText(token.BRACE_L)
	case '}':
		return lex.emitText(token.BRACE_R)
	case '[':
		return lex.emitText(token.BRACKET_L)
	case ']':
		return lex.emitText(token.BRACKET_R)
	case ',':
		return lex.emitText(token.COMMA)
	case ':':
		return lex.emitText(token.COLON)
	case ';':
		return lex.emitText(token.SEMI)
	case '.':
		return lex.emitText(token.DOT)
	case '+':
		return lex.choose(token.PLUS, alt{'=', token.PLUS_ASSIGN}, alt{'+', token.INCREMENT})
	case '-':
		return lex.choose(token.MINUS, alt{'=', token.MINUS_ASSIGN}, alt{'-', token.DECREMENT})
	case '*':
		return lex.choose(token.STAR, alt{'=', token.STAR_ASSIGN})
	case '/':
		return lex.choose(token.SLASH, alt{'=', token.SLASH_ASSIGN}, alt{'/', token.SLASH_SLASH})
	case '%':
		return lex.choose(token.PERCENT, alt{'=', token.PERCENT_ASSIGN})
	case '<':
		return lex.choose(token.LT, alt{'=', token.LE})
	case '>':
		return lex.choose(token.GT, alt{'=', token.GE})
	case '=':
		return lex.choose(token.ASSIGN, alt{'=', token.EQ})
	case '!':
		return lex.choose(token.NOT, alt{'=', token.NE})
	case '#':
		return lex.choose(token.HASH, alt{'=', token.SIGNAL_ASSIGN})
	case '$':
		return lex.choose(token.DOLLAR, alt{'=', token.COMPUTE_ASSIGN})
	case '&':
		if lex.scanner.AcceptRune('&') {
			return lex.emitText(token.AND)
		}
		return lex.errorf("unexpected character %q (did you mean &&?)", c)
	case '|':
		if lex.scanner.AcceptRune('|') {
			return lex.emitText(token.OR)
		}
		return lex.errorf("unexpected character %q (did you mean ||?)", c)
	case '"', '\'':
		return lex.readString(c)
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readWord()
		}
		return lex.errorf("unexpected character %q", c)
	}
}

// choose emits def unless the next rune matches one of the given
// alternatives, in which case the two-rune token is emitted.
func (lex *Lexer) choose(def token.Type, alts ...alt) *token.Token {
	for _, a := range alts {
		if lex.scanner.AcceptRune(a.c) {
			return lex.emitText(a.typ)
		}
	}
	return lex.emitText(def)
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == nil {
		err = fmt.Errorf("unexpected end of input")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

// skipIgnored discards whitespace and block comments.  A non-nil token is
// returned when a comment is left unterminated.
func (lex *Lexer) skipIgnored() *token.Token {
	for {
		lex.scanner.AcceptSeqSpace()
		lex.scanner.Ignore()
		if !lex.scanner.AcceptString("/*") {
			return nil
		}
		for !lex.scanner.AcceptString("*/") {
			if !lex.scanner.Accept(func(c rune) bool { return true }) {
				return lex.errorf("unterminated comment")
			}
		}
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) readString(quote rune) *token.Token {
	for {
		if lex.scanner.AcceptRune(quote) {
			return lex.emitText(token.STRING)
		}
		if lex.scanner.AcceptRune('\n') {
			return lex.errorf("unterminated string literal")
		}
		if !lex.scanner.Accept(func(c rune) bool { return true }) {
			if lex.scanner.EOF() {
				return lex.errorf("unterminated string literal")
			}
			return lex.emitError(lex.scanner.Err())
		}
		if lex.scanner.Rune() == '\\' {
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.errorf("unterminated string literal")
			}
			if c := lex.scanner.Rune(); !isEscape(c) {
				return lex.errorf("invalid escape sequence \\%c in string literal", c)
			}
		}
	}
}

// isEscape reports whether c may follow a backslash in a string literal.
func isEscape(c rune) bool {
	switch c {
	case 'n', 't', 'r', '0', '\\', '"', '\'':
		return true
	default:
		return false
	}
}

func (lex *Lexer) readNumber() *token.Token {
	lex.scanner.AcceptSeqDigit() // the first digit already scanned
	if next, ok := lex.scanner.PeekN(1); ok && isDigit(next) && lex.peekRune() == '.' {
		lex.scanner.AcceptRune('.')
		lex.scanner.AcceptSeqDigit()
	}
	if isWordStart(lex.peekRune()) {
		lex.scanner.AcceptSeq(isWord)
		return lex.errorf("invalid number literal %q", lex.scanner.Text())
	}
	return lex.emitText(token.NUMBER)
}

func (lex *Lexer) readWord() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	if typ, ok := token.Keywords[lex.scanner.Text()]; ok {
		return lex.emitText(typ)
	}
	return lex.emitText(token.IDENT)
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func isWordStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

func isWord(c rune) bool {
	return isWordStart(c) || isDigit(c)
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
