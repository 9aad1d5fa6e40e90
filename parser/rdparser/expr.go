// Copyright © 2018 The ELPS authors

package rdparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/parser/token"
)

// binaryLevels lists the binary operators from loosest to tightest binding.
// All binary operators are left associative.
var binaryLevels = [][]token.Type{
	{token.OR},
	{token.AND},
	{token.EQ, token.NE},
	{token.LT, token.LE, token.GT, token.GE},
	{token.PLUS, token.MINUS},
	{token.STAR, token.SLASH, token.SLASH_SLASH, token.PERCENT},
}

var binaryOps = map[token.Type]ast.Operator{
	token.OR:          ast.Or,
	token.AND:         ast.And,
	token.EQ:          ast.Eq,
	token.NE:          ast.Ne,
	token.LT:          ast.Lt,
	token.LE:          ast.Le,
	token.GT:          ast.Gt,
	token.GE:          ast.Ge,
	token.PLUS:        ast.Add,
	token.MINUS:       ast.Sub,
	token.STAR:        ast.Mul,
	token.SLASH:       ast.Div,
	token.SLASH_SLASH: ast.IntDiv,
	token.PERCENT:     ast.Mod,
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (ast.Node, error) {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) (ast.Node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.Accept(binaryLevels[level]...) {
		op := binaryOps[p.TokenType()]
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = newBinary(op, left, right)
	}
	return left, nil
}

// newBinary returns the node kind that evaluates op.
func newBinary(op ast.Operator, left, right ast.Node) ast.Node {
	loc := left.Pos()
	switch {
	case op.IsComparison():
		return &ast.Comparison{Source: loc, Op: op, Left: left, Right: right}
	case op.IsLogical():
		return &ast.Logical{Source: loc, Op: op, Left: left, Right: right}
	default:
		return &ast.BinaryOp{Source: loc, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Node, error) {
	switch {
	case p.Accept(token.NOT):
		loc := p.Location()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Logical{Source: loc, Op: ast.Not, Left: x}, nil
	case p.Accept(token.MINUS):
		loc := p.Location()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if num, ok := x.(*ast.Number); ok {
			return &ast.Number{Source: loc, Value: -num.Value}, nil
		}
		zero := &ast.Number{Source: loc, Value: 0}
		return &ast.BinaryOp{Source: loc, Op: ast.Sub, Left: zero, Right: x}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.Accept(token.DOT) {
		attr, err := p.expect(token.IDENT, "attribute name")
		if err != nil {
			return nil, err
		}
		x = &ast.ObjectAccess{Source: attr.Source, Object: x, Attr: attr.Text}
	}
	return x, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	switch p.PeekType() {
	case token.NUMBER:
		p.ReadToken()
		x, err := strconv.ParseFloat(p.TokenText(), 64)
		if err != nil {
			return nil, p.errorAt(p.src.Token, "invalid number literal: %v", p.TokenText())
		}
		return &ast.Number{Source: p.Location(), Value: x}, nil
	case token.STRING:
		p.ReadToken()
		s, err := unquote(p.TokenText())
		if err != nil {
			return nil, p.errorAt(p.src.Token, "%v", err)
		}
		return &ast.String{Source: p.Location(), Value: s}, nil
	case token.TRUE, token.FALSE:
		p.ReadToken()
		return &ast.Boolean{Source: p.Location(), Value: p.TokenType() == token.TRUE}, nil
	case token.IDENT:
		p.ReadToken()
		tok := p.src.Token
		if p.PeekType() == token.PAREN_L {
			return p.parseCall(tok)
		}
		return &ast.Identifier{Source: tok.Source, Name: tok.Text}, nil
	case token.HASH, token.DOLLAR:
		p.ReadToken()
		sigil := p.src.Token
		name, err := p.expect(token.IDENT, "signal name")
		if err != nil {
			return nil, err
		}
		if sigil.Type == token.DOLLAR {
			return &ast.ComputedSignal{Source: sigil.Source, Name: name.Text}, nil
		}
		return &ast.Signal{Source: sigil.Source, Name: name.Text}, nil
	case token.BRACKET_L:
		return p.parseList()
	case token.BRACE_L:
		return p.parseObject()
	case token.PAREN_L:
		p.ReadToken()
		loc := p.Location()
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.PAREN_R, "')'"); err != nil {
			return nil, err
		}
		return &ast.Parenthesized{Source: loc, Expr: x}, nil
	}
	return nil, p.unexpected("expression")
}

func (p *Parser) parseCall(name *token.Token) (ast.Node, error) {
	args, err := p.parseExprList(token.PAREN_L, token.PAREN_R, "')'")
	if err != nil {
		return nil, err
	}
	return &ast.FunctionCall{Source: name.Source, Name: name.Text, Args: args}, nil
}

func (p *Parser) parseList() (*ast.List, error) {
	loc := p.PeekLocation()
	elems, err := p.parseExprList(token.BRACKET_L, token.BRACKET_R, "']'")
	if err != nil {
		return nil, err
	}
	if elems == nil {
		elems = []ast.Node{}
	}
	return &ast.List{Source: loc, Elems: elems}, nil
}

// parseExprList parses a comma separated expression list between open and
// close.
func (p *Parser) parseExprList(open, close token.Type, what string) ([]ast.Node, error) {
	if _, err := p.expect(open, "'"+open.String()+"'"); err != nil {
		return nil, err
	}
	var exprs []ast.Node
	for !p.Accept(close) {
		if len(exprs) > 0 {
			if _, err := p.expect(token.COMMA, "',' or "+what); err != nil {
				return nil, err
			}
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, x)
	}
	return exprs, nil
}

func (p *Parser) parseObject() (ast.Node, error) {
	if _, err := p.expect(token.BRACE_L, "'{'"); err != nil {
		return nil, err
	}
	obj := &ast.Object{Source: p.Location(), Fields: []*ast.Field{}}
	for !p.Accept(token.BRACE_R) {
		if len(obj.Fields) > 0 {
			if _, err := p.expect(token.COMMA, "',' or '}'"); err != nil {
				return nil, err
			}
		}
		key, err := p.expect(token.IDENT, "attribute name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		obj.Fields = append(obj.Fields, &ast.Field{Name: key.Text, Value: val})
	}
	return obj, nil
}

// unquote strips the quotes from a string literal and interprets its escape
// sequences.
func unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("malformed string literal: %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(body) {
			return "", fmt.Errorf("malformed string literal: %s", lit)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\', '"', '\'':
			b.WriteByte(body[i])
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c in string literal", body[i])
		}
	}
	return b.String(), nil
}
