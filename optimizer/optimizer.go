// Copyright © 2018 The ELPS authors

// Package optimizer rewrites TanScript syntax trees before evaluation.
//
// Two passes are applied.  Constant folding replaces operator expressions
// whose operands are literals with the literal result, using the same
// operator semantics as the evaluator.  Conditional folding then replaces
// top-level if statements with a literal boolean condition by the branch
// that would run.  Expressions which would fail at runtime are left in place
// so that the evaluator reports the error at the original location.
package optimizer

import (
	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/astutil"
	"github.com/tanndlin/tanscript/lang"
)

// Optimizer implements lang.Optimizer.  The zero value is ready to use.
type Optimizer struct {
	// Logf, if not nil, receives a line for each rewrite.
	Logf func(format string, v ...interface{})
}

var _ lang.Optimizer = (*Optimizer)(nil)

// New returns a new Optimizer.
func New() *Optimizer {
	return &Optimizer{}
}

// Optimize returns an optimized copy of prog using a zero Optimizer.
func Optimize(prog *ast.Program) *ast.Program {
	return New().Optimize(prog)
}

// Optimize returns an optimized copy of prog.  Nodes of prog are never
// modified.
func (o *Optimizer) Optimize(prog *ast.Program) *ast.Program {
	if prog == nil {
		return nil
	}
	out := &ast.Program{
		File:       prog.File,
		Statements: make([]ast.Node, 0, len(prog.Statements)),
	}
	for _, stmt := range prog.Statements {
		stmt = o.fold(stmt)
		if n, ok := stmt.(*ast.If); ok {
			branch, folded := o.foldIf(n)
			if folded {
				if branch != nil {
					out.Statements = append(out.Statements, branch)
				}
				continue
			}
		}
		out.Statements = append(out.Statements, stmt)
	}
	return out
}

func (o *Optimizer) logf(format string, v ...interface{}) {
	if o.Logf != nil {
		o.Logf(format, v...)
	}
}

// foldIf resolves an if statement whose condition is a boolean literal.  The
// returned node is nil when the statement can be removed entirely.
func (o *Optimizer) foldIf(n *ast.If) (ast.Node, bool) {
	cond, ok := n.Cond.(*ast.Boolean)
	if !ok {
		return nil, false
	}
	o.logf("%s: if (%t) folded", n.Source, cond.Value)
	if cond.Value {
		return n.Then, true
	}
	if n.Else == nil {
		return nil, true
	}
	if elif, ok := elseIf(n.Else); ok {
		if branch, folded := o.foldIf(elif); folded {
			return branch, true
		}
		return elif, true
	}
	return n.Else, true
}

// elseIf returns the if statement of an else-if chain link.
func elseIf(b *ast.Block) (*ast.If, bool) {
	if len(b.Body) != 1 {
		return nil, false
	}
	n, ok := b.Body[0].(*ast.If)
	if !ok || n.Source != b.Source {
		return nil, false
	}
	return n, true
}

// fold returns n with constant subexpressions replaced by literals.
func (o *Optimizer) fold(n ast.Node) ast.Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.Number, *ast.String, *ast.Boolean, *ast.Identifier,
		*ast.Signal, *ast.ComputedSignal, *ast.Semi:
		return n
	case *ast.BinaryOp:
		c := *n
		c.Left, c.Right = o.fold(n.Left), o.fold(n.Right)
		return o.foldOp(&c, c.Left, c.Right, lang.Arith)
	case *ast.Comparison:
		c := *n
		c.Left, c.Right = o.fold(n.Left), o.fold(n.Right)
		return o.foldOp(&c, c.Left, c.Right, lang.Compare)
	case *ast.Logical:
		c := *n
		c.Left, c.Right = o.fold(n.Left), o.fold(n.Right)
		return o.foldLogical(&c)
	case *ast.Parenthesized:
		x := o.fold(n.Expr)
		if v, ok := literalValue(x); ok {
			return o.literal(n, v)
		}
		c := *n
		c.Expr = x
		return &c
	case *ast.Assign:
		c := *n
		c.Value = o.fold(n.Value)
		return &c
	case *ast.Declaration:
		c := *n
		c.Value = o.fold(n.Value)
		return &c
	case *ast.Block:
		return o.foldBlock(n)
	case *ast.If:
		c := *n
		c.Cond = o.fold(n.Cond)
		c.Then = o.foldBlock(n.Then)
		c.Else = o.foldBlock(n.Else)
		return &c
	case *ast.While:
		c := *n
		c.Cond = o.fold(n.Cond)
		c.Body = o.foldBlock(n.Body)
		return &c
	case *ast.For:
		c := *n
		c.Init = o.fold(n.Init)
		c.Cond = o.fold(n.Cond)
		c.Update = o.fold(n.Update)
		c.Body = o.foldBlock(n.Body)
		return &c
	case *ast.ForEach:
		c := *n
		c.Iterable = o.fold(n.Iterable)
		c.Body = o.foldBlock(n.Body)
		return &c
	case *ast.FunctionDef:
		c := *n
		c.Body = o.foldBlock(n.Body)
		return &c
	case *ast.FunctionCall:
		c := *n
		c.Args = o.foldAll(n.Args)
		return &c
	case *ast.Return:
		c := *n
		c.Value = o.fold(n.Value)
		return &c
	case *ast.List:
		c := *n
		c.Elems = o.foldAll(n.Elems)
		return &c
	case *ast.Object:
		c := *n
		c.Fields = make([]*ast.Field, len(n.Fields))
		for i, f := range n.Fields {
			c.Fields[i] = &ast.Field{Name: f.Name, Value: o.fold(f.Value)}
		}
		return &c
	case *ast.ObjectAccess:
		c := *n
		c.Object = o.fold(n.Object)
		return &c
	case *ast.SignalAssign:
		c := *n
		c.Value = o.fold(n.Value)
		return &c
	case *ast.ComputedSignalAssign:
		c := *n
		c.Value = o.fold(n.Value)
		return &c
	default:
		return n
	}
}

func (o *Optimizer) foldAll(nodes []ast.Node) []ast.Node {
	if nodes == nil {
		return nil
	}
	out := make([]ast.Node, len(nodes))
	for i, n := range nodes {
		out[i] = o.fold(n)
	}
	return out
}

func (o *Optimizer) foldBlock(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Body = o.foldAll(b.Body)
	return &c
}

func (o *Optimizer) foldOp(n ast.Node, left, right ast.Node, apply func(ast.Operator, *lang.Value, *lang.Value) (*lang.Value, error)) ast.Node {
	a, ok := literalValue(left)
	if !ok {
		return n
	}
	b, ok := literalValue(right)
	if !ok {
		return n
	}
	var op ast.Operator
	switch n := n.(type) {
	case *ast.BinaryOp:
		op = n.Op
	case *ast.Comparison:
		op = n.Op
	}
	v, err := apply(op, a, b)
	if err != nil {
		o.logf("%s: not folded: %v", n.Pos(), err)
		return n
	}
	return o.literal(n, v)
}

func (o *Optimizer) foldLogical(n *ast.Logical) ast.Node {
	a, ok := literalValue(n.Left)
	if !ok {
		return n
	}
	if n.Op == ast.Not {
		return o.literal(n, lang.Bool(!a.Truthy()))
	}
	// The right operand is never evaluated when the left operand decides the
	// result.  It may only be dropped when it reads no signals, because
	// signal references determine the dependencies of a computed signal.
	switch {
	case n.Op == ast.And && !a.Truthy() && !readsSignals(n.Right):
		return o.literal(n, lang.Bool(false))
	case n.Op == ast.Or && a.Truthy() && !readsSignals(n.Right):
		return o.literal(n, lang.Bool(true))
	}
	b, ok := literalValue(n.Right)
	if !ok {
		return n
	}
	v, err := lang.Logic(n.Op, a, b)
	if err != nil {
		return n
	}
	return o.literal(n, v)
}

// literal returns the literal node for v located at n.  If v has no literal
// syntax n is returned unchanged.
func (o *Optimizer) literal(n ast.Node, v *lang.Value) ast.Node {
	var lit ast.Node
	switch v.Type {
	case lang.Number:
		lit = &ast.Number{Source: n.Pos(), Value: v.Num}
	case lang.String:
		lit = &ast.String{Source: n.Pos(), Value: v.Str}
	case lang.Boolean:
		lit = &ast.Boolean{Source: n.Pos(), Value: v.Bool}
	default:
		return n
	}
	o.logf("%s: %s folded to %s", n.Pos(), n, lit)
	return lit
}

func literalValue(n ast.Node) (*lang.Value, bool) {
	switch n := n.(type) {
	case *ast.Number:
		return lang.Num(n.Value), true
	case *ast.String:
		return lang.Str(n.Value), true
	case *ast.Boolean:
		return lang.Bool(n.Value), true
	default:
		return nil, false
	}
}

func readsSignals(n ast.Node) bool {
	return len(astutil.SignalRefs(n)) > 0
}
