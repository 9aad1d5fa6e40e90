// Copyright © 2018 The ELPS authors

package rdparser

import (
	"io"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/parser/token"
)

type reader struct {
}

// NewReader returns a lang.Reader to use in a lang.Runtime.
func NewReader() lang.Reader {
	return &reader{}
}

// Read implements lang.Reader.
func (*reader) Read(name string, r io.Reader) (*ast.Program, error) {
	s := token.NewScanner(name, r)
	return New(s).ParseProgram()
}

// ReadLocation is like Read but records loc as the path of the source file
// in token locations.
func (*reader) ReadLocation(name string, loc string, r io.Reader) (*ast.Program, error) {
	s := token.NewScanner(name, r)
	s.SetPath(loc)
	return New(s).ParseProgram()
}

// Parser is a TanScript parser.
type Parser struct {
	src  *TokenSource
	file string
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	p := NewFromSource(NewTokenSource(scanner))
	p.file = scanner.LocStart().File
	return p
}

// ParseProgram parses statements until EOF.  The first error encountered
// aborts parsing.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{File: p.file}
	for !p.src.IsEOF() {
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// ParseStatement parses a single statement including its terminating
// semicolon, when one is required.
func (p *Parser) ParseStatement() (ast.Node, error) {
	switch p.PeekType() {
	case token.SEMI:
		p.ReadToken()
		return &ast.Semi{Source: p.Location()}, nil
	case token.LET:
		return p.terminated(p.parseDeclaration)
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.FOREACH:
		return p.parseForEach()
	case token.FUNCTION:
		return p.parseFunction()
	case token.RETURN:
		return p.terminated(p.parseReturn)
	case token.BRACE_L:
		return p.ParseBlock()
	}
	if p.atAssignment() {
		return p.terminated(p.parseAssignment)
	}
	return p.terminated(p.ParseExpression)
}

// terminated runs fn and consumes the semicolon that ends the statement.  The
// semicolon may be omitted before a closing brace or the end of input.
func (p *Parser) terminated(fn func() (ast.Node, error)) (ast.Node, error) {
	stmt, err := fn()
	if err != nil {
		return nil, err
	}
	if p.Accept(token.SEMI) {
		return stmt, nil
	}
	switch p.PeekType() {
	case token.BRACE_R, token.EOF:
		return stmt, nil
	}
	return nil, p.unexpected("';'")
}

// ParseBlock parses a brace delimited statement list.
func (p *Parser) ParseBlock() (*ast.Block, error) {
	if _, err := p.expect(token.BRACE_L, "'{'"); err != nil {
		return nil, err
	}
	block := &ast.Block{Source: p.Location()}
	for !p.Accept(token.BRACE_R) {
		if p.PeekType() == token.EOF {
			return nil, p.unexpected("'}'")
		}
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		block.Body = append(block.Body, stmt)
	}
	return block, nil
}

func (p *Parser) parseDeclaration() (ast.Node, error) {
	if _, err := p.expect(token.LET, "'let'"); err != nil {
		return nil, err
	}
	loc := p.Location()
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	val, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Declaration{Source: loc, Name: name.Text, Value: val}, nil
}

var compoundOps = map[token.Type]ast.Operator{
	token.PLUS_ASSIGN:    ast.Add,
	token.MINUS_ASSIGN:   ast.Sub,
	token.STAR_ASSIGN:    ast.Mul,
	token.SLASH_ASSIGN:   ast.Div,
	token.PERCENT_ASSIGN: ast.Mod,
	token.INCREMENT:      ast.Add,
	token.DECREMENT:      ast.Sub,
}

func isUpdate(typ token.Type) bool {
	_, ok := compoundOps[typ]
	return ok
}

// atAssignment reports whether the next tokens begin an assignment statement
// rather than an expression.
func (p *Parser) atAssignment() bool {
	switch p.PeekType() {
	case token.IDENT:
		next := p.src.PeekN(1).Type
		switch next {
		case token.ASSIGN, token.SIGNAL_ASSIGN, token.COMPUTE_ASSIGN:
			return true
		}
		return isUpdate(next)
	case token.HASH, token.DOLLAR:
		return p.src.PeekN(1).Type == token.IDENT && isUpdate(p.src.PeekN(2).Type)
	}
	return false
}

// parseAssignment parses the assignment forms that may appear as a
// statement or in the header of a for loop.  Compound assignments,
// increments and decrements are desugared.
func (p *Parser) parseAssignment() (ast.Node, error) {
	if p.PeekType() == token.HASH || p.PeekType() == token.DOLLAR {
		return p.parseSignalUpdate()
	}
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	loc := name.Source
	optok := p.src.Peek()
	switch optok.Type {
	case token.ASSIGN, token.SIGNAL_ASSIGN, token.COMPUTE_ASSIGN:
		p.ReadToken()
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		switch optok.Type {
		case token.SIGNAL_ASSIGN:
			return &ast.SignalAssign{Source: loc, Name: name.Text, Value: val}, nil
		case token.COMPUTE_ASSIGN:
			return &ast.ComputedSignalAssign{Source: loc, Name: name.Text, Value: val}, nil
		}
		return &ast.Assign{Source: loc, Name: name.Text, Value: val}, nil
	}
	op, ok := compoundOps[optok.Type]
	if !ok {
		return nil, p.unexpected("assignment operator")
	}
	p.ReadToken()
	rhs, err := p.updateOperand(optok)
	if err != nil {
		return nil, err
	}
	target := &ast.Identifier{Source: loc, Name: name.Text}
	return &ast.Assign{
		Source: loc,
		Name:   name.Text,
		Value:  &ast.BinaryOp{Source: optok.Source, Op: op, Left: target, Right: rhs},
	}, nil
}

// parseSignalUpdate parses `#x op= e`, `$x op= e` and the increment and
// decrement forms.  Both desugar into a SignalAssign of the updated value.
func (p *Parser) parseSignalUpdate() (ast.Node, error) {
	p.ReadToken()
	sigil := p.src.Token
	name, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	optok := p.src.Peek()
	op, ok := compoundOps[optok.Type]
	if !ok {
		return nil, p.unexpected("update operator")
	}
	p.ReadToken()
	rhs, err := p.updateOperand(optok)
	if err != nil {
		return nil, err
	}
	var target ast.Node = &ast.Signal{Source: sigil.Source, Name: name.Text}
	if sigil.Type == token.DOLLAR {
		target = &ast.ComputedSignal{Source: sigil.Source, Name: name.Text}
	}
	return &ast.SignalAssign{
		Source: sigil.Source,
		Name:   name.Text,
		Value:  &ast.BinaryOp{Source: optok.Source, Op: op, Left: target, Right: rhs},
	}, nil
}

// updateOperand returns the right operand of a desugared update operator.
func (p *Parser) updateOperand(optok *token.Token) (ast.Node, error) {
	switch optok.Type {
	case token.INCREMENT, token.DECREMENT:
		return &ast.Number{Source: optok.Source, Value: 1}, nil
	}
	return p.ParseExpression()
}

func (p *Parser) parseIf() (ast.Node, error) {
	if _, err := p.expect(token.IF, "'if'"); err != nil {
		return nil, err
	}
	loc := p.Location()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	n := &ast.If{Source: loc, Cond: cond, Then: then}
	if !p.Accept(token.ELSE) {
		return n, nil
	}
	if p.PeekType() == token.IF {
		elif, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		n.Else = &ast.Block{Source: elif.Pos(), Body: []ast.Node{elif}}
		return n, nil
	}
	n.Else, err = p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseCondition() (ast.Node, error) {
	if _, err := p.expect(token.PAREN_L, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PAREN_R, "')'"); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	if _, err := p.expect(token.WHILE, "'while'"); err != nil {
		return nil, err
	}
	loc := p.Location()
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.While{Source: loc, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	if _, err := p.expect(token.FOR, "'for'"); err != nil {
		return nil, err
	}
	n := &ast.For{Source: p.Location()}
	if _, err := p.expect(token.PAREN_L, "'('"); err != nil {
		return nil, err
	}
	var err error
	switch {
	case p.PeekType() == token.LET:
		n.Init, err = p.parseDeclaration()
	case p.PeekType() != token.SEMI:
		n.Init, err = p.parseAssignment()
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI, "';'"); err != nil {
		return nil, err
	}
	if p.PeekType() != token.SEMI {
		n.Cond, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMI, "';'"); err != nil {
		return nil, err
	}
	if p.PeekType() != token.PAREN_R {
		n.Update, err = p.parseAssignment()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.PAREN_R, "')'"); err != nil {
		return nil, err
	}
	n.Body, err = p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseForEach() (ast.Node, error) {
	if _, err := p.expect(token.FOREACH, "'foreach'"); err != nil {
		return nil, err
	}
	n := &ast.ForEach{Source: p.Location()}
	if _, err := p.expect(token.PAREN_L, "'('"); err != nil {
		return nil, err
	}
	v, err := p.expect(token.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	n.Var = v.Text
	if _, err := p.expect(token.IN, "'in'"); err != nil {
		return nil, err
	}
	switch p.PeekType() {
	case token.IDENT:
		p.ReadToken()
		n.Iterable = &ast.Identifier{Source: p.Location(), Name: p.TokenText()}
	case token.BRACKET_L:
		n.Iterable, err = p.parseList()
		if err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("identifier or list")
	}
	if _, err := p.expect(token.PAREN_R, "')'"); err != nil {
		return nil, err
	}
	n.Body, err = p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseFunction() (ast.Node, error) {
	if _, err := p.expect(token.FUNCTION, "'function'"); err != nil {
		return nil, err
	}
	loc := p.Location()
	name, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.PAREN_L, "'('"); err != nil {
		return nil, err
	}
	n := &ast.FunctionDef{Source: loc, Name: name.Text, Params: []string{}}
	seen := make(map[string]bool)
	for i := 0; !p.Accept(token.PAREN_R); i++ {
		if i > 0 {
			if _, err := p.expect(token.COMMA, "',' or ')'"); err != nil {
				return nil, err
			}
		}
		param, err := p.expect(token.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		if seen[param.Text] {
			return nil, p.errorAt(param, "duplicate parameter %s in function %s", param.Text, name.Text)
		}
		seen[param.Text] = true
		n.Params = append(n.Params, param.Text)
	}
	n.Body, err = p.ParseBlock()
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *Parser) parseReturn() (ast.Node, error) {
	if _, err := p.expect(token.RETURN, "'return'"); err != nil {
		return nil, err
	}
	n := &ast.Return{Source: p.Location()}
	switch p.PeekType() {
	case token.SEMI, token.BRACE_R, token.EOF:
		return n, nil
	}
	val, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	n.Value = val
	return n, nil
}

// ReadToken consumes the next token.
func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

// TokenText returns the text of the last consumed token.
func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) PeekLocation() *token.Location {
	return p.src.Peek().Source
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

// expect consumes a token of type typ or returns an error describing what
// was expected instead.
func (p *Parser) expect(typ token.Type, what string) (*token.Token, error) {
	if !p.Accept(typ) {
		return nil, p.unexpected(what)
	}
	return p.src.Token, nil
}

// unexpected returns an error for the next token, which does not match what
// the grammar expected.  The token is not consumed.
func (p *Parser) unexpected(what string) error {
	tok := p.src.Peek()
	switch tok.Type {
	case token.ERROR, token.INVALID:
		return p.scanError(tok)
	case token.EOF:
		err := p.errorAt(tok, "unexpected EOF, expected %s", what)
		err.Err = io.ErrUnexpectedEOF
		return err
	}
	return p.errorAt(tok, "unexpected token '%s', expected %s", tok.Text, what)
}

func (p *Parser) errorAt(tok *token.Token, format string, v ...interface{}) *lang.Error {
	err := lang.Errorf(lang.CondParserError, format, v...)
	err.Source = tok.Source
	return err
}

func (p *Parser) scanError(tok *token.Token) error {
	return &lang.Error{
		Condition: lang.CondLexerError,
		Message:   tok.Text,
		Source:    tok.Source,
	}
}
