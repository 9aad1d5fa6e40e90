// Copyright © 2018 The ELPS authors

package token

import "fmt"

// Token is a lexical unit of TanScript source.
type Token struct {
	Type   Type
	Text   string
	Source *Location
}

func (tok *Token) String() string {
	if tok.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%v %q", tok.Type, tok.Text)
}

type Type uint

// Type constants used by the TanScript lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Literals
	IDENT
	NUMBER
	STRING

	// Keywords
	LET
	IF
	ELSE
	WHILE
	FOR
	FOREACH
	IN
	FUNCTION
	RETURN
	TRUE
	FALSE

	// Arithmetic operators
	PLUS
	MINUS
	STAR
	SLASH
	SLASH_SLASH
	PERCENT

	// Comparison and logical operators
	LT
	LE
	GT
	GE
	EQ
	NE
	AND
	OR
	NOT

	// Assignment operators
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	INCREMENT
	DECREMENT
	SIGNAL_ASSIGN
	COMPUTE_ASSIGN

	// Signal sigils
	HASH
	DOLLAR

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R
	BRACKET_L
	BRACKET_R
	COMMA
	COLON
	SEMI
	DOT

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:        "invalid",
	ERROR:          "error",
	EOF:            "EOF",
	IDENT:          "identifier",
	NUMBER:         "number",
	STRING:         "string",
	LET:            "let",
	IF:             "if",
	ELSE:           "else",
	WHILE:          "while",
	FOR:            "for",
	FOREACH:        "foreach",
	IN:             "in",
	FUNCTION:       "function",
	RETURN:         "return",
	TRUE:           "true",
	FALSE:          "false",
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	SLASH:          "/",
	SLASH_SLASH:    "//",
	PERCENT:        "%",
	LT:             "<",
	LE:             "<=",
	GT:             ">",
	GE:             ">=",
	EQ:             "==",
	NE:             "!=",
	AND:            "&&",
	OR:             "||",
	NOT:            "!",
	ASSIGN:         "=",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	INCREMENT:      "++",
	DECREMENT:      "--",
	SIGNAL_ASSIGN:  "#=",
	COMPUTE_ASSIGN: "$=",
	HASH:           "#",
	DOLLAR:         "$",
	PAREN_L:        "(",
	PAREN_R:        ")",
	BRACE_L:        "{",
	BRACE_R:        "}",
	BRACKET_L:      "[",
	BRACKET_R:      "]",
	COMMA:          ",",
	COLON:          ":",
	SEMI:           ";",
	DOT:            ".",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keywords maps reserved words to their token types.
var Keywords = map[string]Type{
	"let":      LET,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"foreach":  FOREACH,
	"in":       IN,
	"function": FUNCTION,
	"return":   RETURN,
	"true":     TRUE,
	"false":    FALSE,
}

// Location identifies a position in a named source stream.
type Location struct {
	File string // a name representing the source stream
	Path string // a physical location which may differ from File
	Pos  int
	Line int // line number (starting at 1 when tracked)
	Col  int // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc == nil:
		return "<unknown>"
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}
