// Copyright © 2018 The ELPS authors

// Package ast defines the syntax tree produced by the TanScript parser.
//
// The set of node types is closed.  Every node implements Node and consumers
// (the evaluator, optimizer and compiler) dispatch with an exhaustive type
// switch.
package ast

import (
	"strconv"
	"strings"

	"github.com/tanndlin/tanscript/parser/token"
)

// Node is a TanScript syntax tree node.
type Node interface {
	// Pos returns the location of the first token of the node.
	Pos() *token.Location
	// String renders the node in source syntax.
	String() string
	node()
}

// Program is the root of a parsed source file.
type Program struct {
	File       string
	Statements []Node
}

func (p *Program) String() string {
	var b strings.Builder
	for i, stmt := range p.Statements {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Statement(stmt))
	}
	return b.String()
}

// Statement renders n as it would appear in a statement list, terminated by
// a semicolon when the grammar requires one.
func Statement(n Node) string {
	switch n.(type) {
	case *Block, *If, *While, *For, *ForEach, *FunctionDef:
		return n.String()
	case *Semi:
		return ";"
	default:
		return n.String() + ";"
	}
}

// Number is a numeric literal.
type Number struct {
	Source *token.Location
	Value  float64
}

// String is a string literal.
type String struct {
	Source *token.Location
	Value  string
}

// Boolean is the literal true or false.
type Boolean struct {
	Source *token.Location
	Value  bool
}

// Identifier references a variable or function by name.
type Identifier struct {
	Source *token.Location
	Name   string
}

// BinaryOp is an arithmetic expression: + - * / // %.
type BinaryOp struct {
	Source *token.Location
	Op     Operator
	Left   Node
	Right  Node
}

// Comparison is a relational or equality expression.
type Comparison struct {
	Source *token.Location
	Op     Operator
	Left   Node
	Right  Node
}

// Logical is a boolean connective.  Right is nil when Op is Not.
type Logical struct {
	Source *token.Location
	Op     Operator
	Left   Node
	Right  Node
}

// Assign stores a value in an existing variable.
type Assign struct {
	Source *token.Location
	Name   string
	Value  Node
}

// Declaration binds a fresh variable in the current scope.
type Declaration struct {
	Source *token.Location
	Name   string
	Value  Node
}

// Block is a braced statement list evaluated in its own scope.
type Block struct {
	Source *token.Location
	Body   []Node
}

// If is a conditional.  Else is nil when there is no else branch; an
// else-if chain is represented as an Else block holding a single If.
type If struct {
	Source *token.Location
	Cond   Node
	Then   *Block
	Else   *Block
}

// While is a pre-tested loop.
type While struct {
	Source *token.Location
	Cond   Node
	Body   *Block
}

// For is a C-style loop.  Any of Init, Cond and Update may be nil.
type For struct {
	Source *token.Location
	Init   Node
	Cond   Node
	Update Node
	Body   *Block
}

// ForEach iterates over the elements of a list.  Iterable is either an
// *Identifier or a *List.
type ForEach struct {
	Source   *token.Location
	Var      string
	Iterable Node
	Body     *Block
}

// FunctionDef declares a named user function.
type FunctionDef struct {
	Source *token.Location
	Name   string
	Params []string
	Body   *Block
}

// FunctionCall invokes a built-in or user function by name.
type FunctionCall struct {
	Source *token.Location
	Name   string
	Args   []Node
}

// Return unwinds to the enclosing function call.  Value may be nil.
type Return struct {
	Source *token.Location
	Value  Node
}

// List is a list literal.
type List struct {
	Source *token.Location
	Elems  []Node
}

// Field is a single name: value pair of an object literal.
type Field struct {
	Name  string
	Value Node
}

// Object is an object literal.  Fields keep their source order.
type Object struct {
	Source *token.Location
	Fields []*Field
}

// ObjectAccess reads an attribute of an object, obj.attr.
type ObjectAccess struct {
	Source *token.Location
	Object Node
	Attr   string
}

// Signal reads a signal, #name.
type Signal struct {
	Source *token.Location
	Name   string
}

// SignalAssign writes a signal, name #= value.
type SignalAssign struct {
	Source *token.Location
	Name   string
	Value  Node
}

// ComputedSignal reads a computed signal, $name.
type ComputedSignal struct {
	Source *token.Location
	Name   string
}

// ComputedSignalAssign binds a computed signal to an expression, name $= expr.
type ComputedSignalAssign struct {
	Source *token.Location
	Name   string
	Value  Node
}

// Parenthesized is an expression wrapped in parentheses.
type Parenthesized struct {
	Source *token.Location
	Expr   Node
}

// Semi is an empty statement.
type Semi struct {
	Source *token.Location
}

func (n *Number) Pos() *token.Location               { return n.Source }
func (n *String) Pos() *token.Location               { return n.Source }
func (n *Boolean) Pos() *token.Location              { return n.Source }
func (n *Identifier) Pos() *token.Location           { return n.Source }
func (n *BinaryOp) Pos() *token.Location             { return n.Source }
func (n *Comparison) Pos() *token.Location           { return n.Source }
func (n *Logical) Pos() *token.Location              { return n.Source }
func (n *Assign) Pos() *token.Location               { return n.Source }
func (n *Declaration) Pos() *token.Location          { return n.Source }
func (n *Block) Pos() *token.Location                { return n.Source }
func (n *If) Pos() *token.Location                   { return n.Source }
func (n *While) Pos() *token.Location                { return n.Source }
func (n *For) Pos() *token.Location                  { return n.Source }
func (n *ForEach) Pos() *token.Location              { return n.Source }
func (n *FunctionDef) Pos() *token.Location          { return n.Source }
func (n *FunctionCall) Pos() *token.Location         { return n.Source }
func (n *Return) Pos() *token.Location               { return n.Source }
func (n *List) Pos() *token.Location                 { return n.Source }
func (n *Object) Pos() *token.Location               { return n.Source }
func (n *ObjectAccess) Pos() *token.Location         { return n.Source }
func (n *Signal) Pos() *token.Location               { return n.Source }
func (n *SignalAssign) Pos() *token.Location         { return n.Source }
func (n *ComputedSignal) Pos() *token.Location       { return n.Source }
func (n *ComputedSignalAssign) Pos() *token.Location { return n.Source }
func (n *Parenthesized) Pos() *token.Location        { return n.Source }
func (n *Semi) Pos() *token.Location                 { return n.Source }

func (*Number) node()               {}
func (*String) node()               {}
func (*Boolean) node()              {}
func (*Identifier) node()           {}
func (*BinaryOp) node()             {}
func (*Comparison) node()           {}
func (*Logical) node()              {}
func (*Assign) node()               {}
func (*Declaration) node()          {}
func (*Block) node()                {}
func (*If) node()                   {}
func (*While) node()                {}
func (*For) node()                  {}
func (*ForEach) node()              {}
func (*FunctionDef) node()          {}
func (*FunctionCall) node()         {}
func (*Return) node()               {}
func (*List) node()                 {}
func (*Object) node()               {}
func (*ObjectAccess) node()         {}
func (*Signal) node()               {}
func (*SignalAssign) node()         {}
func (*ComputedSignal) node()       {}
func (*ComputedSignalAssign) node() {}
func (*Parenthesized) node()        {}
func (*Semi) node()                 {}

// FormatNumber renders x the way TanScript prints numbers: integral values
// have no fractional part.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func (n *Number) String() string     { return FormatNumber(n.Value) }
func (n *String) String() string     { return strconv.Quote(n.Value) }
func (n *Boolean) String() string    { return strconv.FormatBool(n.Value) }
func (n *Identifier) String() string { return n.Name }

func (n *BinaryOp) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func (n *Comparison) String() string {
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func (n *Logical) String() string {
	if n.Op == Not {
		return "!" + n.Left.String()
	}
	return n.Left.String() + " " + n.Op.String() + " " + n.Right.String()
}

func (n *Assign) String() string      { return n.Name + " = " + n.Value.String() }
func (n *Declaration) String() string { return "let " + n.Name + " = " + n.Value.String() }

func (n *Block) String() string {
	if len(n.Body) == 0 {
		return "{}"
	}
	parts := make([]string, len(n.Body))
	for i, stmt := range n.Body {
		parts[i] = Statement(stmt)
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (n *If) String() string {
	s := "if (" + n.Cond.String() + ") " + n.Then.String()
	if n.Else == nil {
		return s
	}
	if len(n.Else.Body) == 1 {
		if elif, ok := n.Else.Body[0].(*If); ok && n.Else.Source == elif.Source {
			return s + " else " + elif.String()
		}
	}
	return s + " else " + n.Else.String()
}

func (n *While) String() string {
	return "while (" + n.Cond.String() + ") " + n.Body.String()
}

func (n *For) String() string {
	var b strings.Builder
	b.WriteString("for (")
	if n.Init != nil {
		b.WriteString(n.Init.String())
	}
	b.WriteString("; ")
	if n.Cond != nil {
		b.WriteString(n.Cond.String())
	}
	b.WriteString("; ")
	if n.Update != nil {
		b.WriteString(n.Update.String())
	}
	b.WriteString(") ")
	b.WriteString(n.Body.String())
	return b.String()
}

func (n *ForEach) String() string {
	return "foreach (" + n.Var + " in " + n.Iterable.String() + ") " + n.Body.String()
}

func (n *FunctionDef) String() string {
	return "function " + n.Name + "(" + strings.Join(n.Params, ", ") + ") " + n.Body.String()
}

func (n *FunctionCall) String() string {
	return n.Name + "(" + joinNodes(n.Args) + ")"
}

func (n *Return) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}

func (n *List) String() string { return "[" + joinNodes(n.Elems) + "]" }

func (n *Object) String() string {
	if len(n.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		parts[i] = f.Name + ": " + f.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (n *ObjectAccess) String() string         { return n.Object.String() + "." + n.Attr }
func (n *Signal) String() string               { return "#" + n.Name }
func (n *SignalAssign) String() string         { return n.Name + " #= " + n.Value.String() }
func (n *ComputedSignal) String() string       { return "$" + n.Name }
func (n *ComputedSignalAssign) String() string { return n.Name + " $= " + n.Value.String() }
func (n *Parenthesized) String() string        { return "(" + n.Expr.String() + ")" }
func (n *Semi) String() string                 { return ";" }

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}
