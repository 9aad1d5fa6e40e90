// Copyright © 2024 The ELPS authors

// Package astutil provides shared AST walking utilities for TanScript syntax
// trees.
//
// These helpers are used by the evaluator (signal dependency collection),
// the REPL (completion) and tests.
package astutil

import (
	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/parser/token"
)

// Walk calls fn for every node in the tree, depth-first in source order.
// parent is nil for top-level statements.
func Walk(nodes []ast.Node, fn func(node ast.Node, parent ast.Node, depth int)) {
	for _, n := range nodes {
		walkNode(n, nil, 0, fn)
	}
}

// Inspect traverses n depth-first.  If fn returns false the children of the
// current node are skipped.
func Inspect(n ast.Node, fn func(ast.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Inspect(child, fn)
	}
}

func walkNode(node ast.Node, parent ast.Node, depth int, fn func(ast.Node, ast.Node, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// Children returns the direct child nodes of n in source order.  Nil
// optional children are omitted.
func Children(n ast.Node) []ast.Node {
	switch n := n.(type) {
	case *ast.BinaryOp:
		return []ast.Node{n.Left, n.Right}
	case *ast.Comparison:
		return []ast.Node{n.Left, n.Right}
	case *ast.Logical:
		return nonNil(n.Left, n.Right)
	case *ast.Assign:
		return []ast.Node{n.Value}
	case *ast.Declaration:
		return []ast.Node{n.Value}
	case *ast.Block:
		return n.Body
	case *ast.If:
		return nonNil(n.Cond, blockNode(n.Then), blockNode(n.Else))
	case *ast.While:
		return nonNil(n.Cond, blockNode(n.Body))
	case *ast.For:
		return nonNil(n.Init, n.Cond, n.Update, blockNode(n.Body))
	case *ast.ForEach:
		return nonNil(n.Iterable, blockNode(n.Body))
	case *ast.FunctionDef:
		return nonNil(blockNode(n.Body))
	case *ast.FunctionCall:
		return n.Args
	case *ast.Return:
		return nonNil(n.Value)
	case *ast.List:
		return n.Elems
	case *ast.Object:
		children := make([]ast.Node, len(n.Fields))
		for i, f := range n.Fields {
			children[i] = f.Value
		}
		return children
	case *ast.ObjectAccess:
		return []ast.Node{n.Object}
	case *ast.SignalAssign:
		return []ast.Node{n.Value}
	case *ast.ComputedSignalAssign:
		return []ast.Node{n.Value}
	case *ast.Parenthesized:
		return []ast.Node{n.Expr}
	default:
		return nil
	}
}

// blockNode avoids storing a typed nil *ast.Block in an ast.Node.
func blockNode(b *ast.Block) ast.Node {
	if b == nil {
		return nil
	}
	return b
}

func nonNil(nodes ...ast.Node) []ast.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// SignalRef is a reference to a signal found in an expression.
type SignalRef struct {
	Name     string
	Computed bool
}

// SignalRefs returns every #x and $x reference in n, in source order and
// without duplicates.
func SignalRefs(n ast.Node) []SignalRef {
	var refs []SignalRef
	seen := make(map[SignalRef]bool)
	Inspect(n, func(n ast.Node) bool {
		var ref SignalRef
		switch n := n.(type) {
		case *ast.Signal:
			ref = SignalRef{Name: n.Name}
		case *ast.ComputedSignal:
			ref = SignalRef{Name: n.Name, Computed: true}
		default:
			return true
		}
		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// UserDefined returns the set of names bound anywhere in the source:
// declared variables, function names, function parameters and loop
// variables.
//
// The result is file-global (not scope-aware).
func UserDefined(nodes []ast.Node) map[string]bool {
	defs := make(map[string]bool)
	Walk(nodes, func(node ast.Node, _ ast.Node, _ int) {
		switch n := node.(type) {
		case *ast.Declaration:
			defs[n.Name] = true
		case *ast.FunctionDef:
			defs[n.Name] = true
			for _, p := range n.Params {
				defs[p] = true
			}
		case *ast.ForEach:
			defs[n.Var] = true
		}
	})
	return defs
}

// SourceOf returns the best source location for a node.  Prefers the
// node's own location, falls back to the first child's.
func SourceOf(n ast.Node) *token.Location {
	if loc := n.Pos(); loc != nil && loc.Line > 0 {
		return loc
	}
	for _, child := range Children(n) {
		if loc := SourceOf(child); loc != nil {
			return loc
		}
	}
	return n.Pos()
}
