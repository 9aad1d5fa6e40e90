// Copyright © 2018 The ELPS authors

package lang

import (
	"math"

	"github.com/tanndlin/tanscript/ast"
)

// Arith applies the arithmetic operator op to a and b.  Errors carry no
// source location; the evaluator attaches one.
func Arith(op ast.Operator, a, b *Value) (*Value, error) {
	if op == ast.Add {
		switch {
		case a.Type == List && b.Type == List:
			cells := make([]*Value, 0, len(a.Cells)+len(b.Cells))
			cells = append(cells, a.Cells...)
			cells = append(cells, b.Cells...)
			return ListOf(cells...), nil
		case (a.Type == String || b.Type == String) && isScalar(a) && isScalar(b):
			return Str(a.String() + b.String()), nil
		}
	}
	if a.Type != Number || b.Type != Number {
		return nil, Errorf(CondTypeError, "invalid operands for %s: %s and %s", op, a.Type, b.Type)
	}
	x, y := a.Num, b.Num
	switch op {
	case ast.Add:
		return Num(x + y), nil
	case ast.Sub:
		return Num(x - y), nil
	case ast.Mul:
		return Num(x * y), nil
	case ast.Div:
		if y == 0 {
			return nil, Errorf(CondRuntimeError, "division by zero")
		}
		return Num(x / y), nil
	case ast.IntDiv:
		if y == 0 {
			return nil, Errorf(CondRuntimeError, "integer division by zero")
		}
		return Num(math.Trunc(x / y)), nil
	case ast.Mod:
		if y == 0 {
			return nil, Errorf(CondRuntimeError, "modulo by zero")
		}
		return Num(math.Mod(x, y)), nil
	default:
		return nil, Errorf(CondRuntimeError, "not an arithmetic operator: %s", op)
	}
}

func isScalar(v *Value) bool {
	switch v.Type {
	case Number, String, Boolean:
		return true
	default:
		return false
	}
}

// Compare applies the comparison operator op to a and b.  Equality is
// defined for all values; ordering only for pairs of numbers or pairs of
// strings.
func Compare(op ast.Operator, a, b *Value) (*Value, error) {
	switch op {
	case ast.Eq:
		return Bool(a.Equal(b)), nil
	case ast.Ne:
		return Bool(!a.Equal(b)), nil
	}
	var c int
	switch {
	case a.Type == Number && b.Type == Number:
		switch {
		case a.Num < b.Num:
			c = -1
		case a.Num > b.Num:
			c = 1
		case a.Num != b.Num:
			// NaN is unordered
			return Bool(false), nil
		}
	case a.Type == String && b.Type == String:
		switch {
		case a.Str < b.Str:
			c = -1
		case a.Str > b.Str:
			c = 1
		}
	default:
		return nil, Errorf(CondTypeError, "cannot compare %s and %s with %s", a.Type, b.Type, op)
	}
	switch op {
	case ast.Lt:
		return Bool(c < 0), nil
	case ast.Le:
		return Bool(c <= 0), nil
	case ast.Gt:
		return Bool(c > 0), nil
	case ast.Ge:
		return Bool(c >= 0), nil
	default:
		return nil, Errorf(CondRuntimeError, "not a comparison operator: %s", op)
	}
}

// Logic applies the logical operator op to already evaluated operands.  b is
// ignored for ast.Not.  Logic never short-circuits, so it is only suitable
// when both operands are known, as when folding constants.
func Logic(op ast.Operator, a, b *Value) (*Value, error) {
	switch op {
	case ast.Not:
		return Bool(!a.Truthy()), nil
	case ast.And:
		return Bool(a.Truthy() && b.Truthy()), nil
	case ast.Or:
		return Bool(a.Truthy() || b.Truthy()), nil
	default:
		return nil, Errorf(CondRuntimeError, "not a logical operator: %s", op)
	}
}
