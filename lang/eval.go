// Copyright © 2018 The ELPS authors

package lang

import (
	"errors"

	"github.com/tanndlin/tanscript/ast"
)

// Result is the outcome of evaluating a statement.  Returning is set when a
// return statement is unwinding toward the enclosing function call.
type Result struct {
	Value     *Value
	Returning bool
}

func normal(v *Value) Result {
	return Result{Value: v}
}

// Eval evaluates n in s and returns its value.  A return statement evaluated
// outside of any function stops evaluation of n and yields the returned
// value.
func (s *Scope) Eval(n ast.Node) (*Value, error) {
	res, err := s.eval(n)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// EvalProgram evaluates the statements of prog in order directly in s,
// returning the value of the last statement.
func (s *Scope) EvalProgram(prog *ast.Program) (*Value, error) {
	res, err := s.evalStatements(prog.Statements)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// evalExpr evaluates an expression node.  Expressions cannot contain
// statements so the Returning flag is never set.
func (s *Scope) evalExpr(n ast.Node) (*Value, error) {
	res, err := s.eval(n)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

func (s *Scope) errorf(n ast.Node, cond Condition, format string, v ...interface{}) error {
	err := Errorf(cond, format, v...)
	err.Source = n.Pos()
	s.associate(err)
	return err
}

// fail associates err with the location of n and the current call stack,
// unless err already carries them.
func (s *Scope) fail(n ast.Node, err error) error {
	var lerr *Error
	if errors.As(err, &lerr) {
		if lerr.Source == nil && n != nil {
			lerr.Source = n.Pos()
		}
		s.associate(lerr)
	}
	return err
}

func (s *Scope) associate(err *Error) {
	if err.Stack == nil {
		err.Stack = s.Runtime.Stack.Copy()
	}
}

// evalStatements evaluates stmts in s, stopping early when a statement
// returns.  The value of the last statement is the result.  Semi markers
// are skipped.
func (s *Scope) evalStatements(stmts []ast.Node) (Result, error) {
	last := VoidValue()
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.Semi); ok {
			continue
		}
		res, err := s.eval(stmt)
		if err != nil {
			return Result{}, err
		}
		if res.Returning {
			return res, nil
		}
		last = res.Value
	}
	return normal(last), nil
}

func (s *Scope) eval(n ast.Node) (Result, error) {
	if err := s.Runtime.step(); err != nil {
		return Result{}, s.fail(n, err)
	}
	switch n := n.(type) {
	case *ast.Number:
		return normal(Num(n.Value)), nil
	case *ast.String:
		return normal(Str(n.Value)), nil
	case *ast.Boolean:
		return normal(Bool(n.Value)), nil
	case *ast.Identifier:
		v, err := s.Get(n.Name)
		if err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.BinaryOp:
		return s.evalBinary(n, n.Op, n.Left, n.Right, Arith)
	case *ast.Comparison:
		return s.evalBinary(n, n.Op, n.Left, n.Right, Compare)
	case *ast.Logical:
		return s.evalLogical(n)
	case *ast.Parenthesized:
		return s.eval(n.Expr)
	case *ast.Declaration:
		v, err := s.evalExpr(n.Value)
		if err != nil {
			return Result{}, err
		}
		if err := s.Declare(n.Name, v); err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.Assign:
		v, err := s.evalExpr(n.Value)
		if err != nil {
			return Result{}, err
		}
		if err := s.Set(n.Name, v); err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.Block:
		return s.NewChild().evalStatements(n.Body)
	case *ast.If:
		return s.evalIf(n)
	case *ast.While:
		return s.evalWhile(n)
	case *ast.For:
		return s.evalFor(n)
	case *ast.ForEach:
		return s.evalForEach(n)
	case *ast.FunctionDef:
		if err := s.DeclareFunction(n); err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(VoidValue()), nil
	case *ast.FunctionCall:
		v, err := s.evalCall(n)
		if err != nil {
			return Result{}, err
		}
		return normal(v), nil
	case *ast.Return:
		if n.Value == nil {
			return Result{Value: VoidValue(), Returning: true}, nil
		}
		v, err := s.evalExpr(n.Value)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v, Returning: true}, nil
	case *ast.List:
		cells, err := s.evalList(n.Elems)
		if err != nil {
			return Result{}, err
		}
		return normal(ListOf(cells...)), nil
	case *ast.Object:
		attrs := make(map[string]*Value, len(n.Fields))
		for _, f := range n.Fields {
			v, err := s.evalExpr(f.Value)
			if err != nil {
				return Result{}, err
			}
			attrs[f.Name] = v
		}
		return normal(ObjectOf(attrs)), nil
	case *ast.ObjectAccess:
		obj, err := s.evalExpr(n.Object)
		if err != nil {
			return Result{}, err
		}
		if obj.Type != Object {
			return Result{}, s.errorf(n, CondTypeError, "cannot access attribute %s of %s", n.Attr, obj.Type)
		}
		v, ok := obj.Attrs[n.Attr]
		if !ok {
			return Result{}, s.errorf(n, CondRuntimeError, "object has no attribute %s", n.Attr)
		}
		return normal(v), nil
	case *ast.Signal:
		v, err := s.SignalValue(n.Name)
		if err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.ComputedSignal:
		v, err := s.SignalValue(n.Name)
		if err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.SignalAssign:
		v, err := s.evalExpr(n.Value)
		if err != nil {
			return Result{}, err
		}
		s.SetSignal(n.Name, v)
		return normal(v), nil
	case *ast.ComputedSignalAssign:
		v, err := s.SetSignalCompute(n.Name, n.Value)
		if err != nil {
			return Result{}, s.fail(n, err)
		}
		return normal(v), nil
	case *ast.Semi:
		return normal(VoidValue()), nil
	case nil:
		return Result{}, Errorf(CondRuntimeError, "nil node")
	default:
		return Result{}, s.errorf(n, CondRuntimeError, "unsupported node type %T", n)
	}
}

func (s *Scope) evalList(elems []ast.Node) ([]*Value, error) {
	cells := make([]*Value, len(elems))
	for i, e := range elems {
		v, err := s.evalExpr(e)
		if err != nil {
			return nil, err
		}
		cells[i] = v
	}
	return cells, nil
}

func (s *Scope) evalBinary(n ast.Node, op ast.Operator, left, right ast.Node, fn func(ast.Operator, *Value, *Value) (*Value, error)) (Result, error) {
	a, err := s.evalExpr(left)
	if err != nil {
		return Result{}, err
	}
	b, err := s.evalExpr(right)
	if err != nil {
		return Result{}, err
	}
	v, err := fn(op, a, b)
	if err != nil {
		return Result{}, s.fail(n, err)
	}
	return normal(v), nil
}

func (s *Scope) evalLogical(n *ast.Logical) (Result, error) {
	a, err := s.evalExpr(n.Left)
	if err != nil {
		return Result{}, err
	}
	switch n.Op {
	case ast.Not:
		return normal(Bool(!a.Truthy())), nil
	case ast.And:
		if !a.Truthy() {
			return normal(Bool(false)), nil
		}
	case ast.Or:
		if a.Truthy() {
			return normal(Bool(true)), nil
		}
	default:
		return Result{}, s.errorf(n, CondRuntimeError, "not a logical operator: %s", n.Op)
	}
	b, err := s.evalExpr(n.Right)
	if err != nil {
		return Result{}, err
	}
	return normal(Bool(b.Truthy())), nil
}

// condition evaluates a loop or branch condition, which must be boolean.
func (s *Scope) condition(n ast.Node) (bool, error) {
	v, err := s.evalExpr(n)
	if err != nil {
		return false, err
	}
	if v.Type != Boolean {
		return false, s.errorf(n, CondTypeError, "condition must be a boolean, got %s", v.Type)
	}
	return v.Bool, nil
}

func (s *Scope) evalIf(n *ast.If) (Result, error) {
	ok, err := s.condition(n.Cond)
	if err != nil {
		return Result{}, err
	}
	if ok {
		return s.eval(n.Then)
	}
	if n.Else != nil {
		return s.eval(n.Else)
	}
	return normal(VoidValue()), nil
}

func (s *Scope) evalWhile(n *ast.While) (Result, error) {
	last := VoidValue()
	for {
		ok, err := s.condition(n.Cond)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return normal(last), nil
		}
		res, err := s.eval(n.Body)
		if err != nil {
			return Result{}, err
		}
		if res.Returning {
			return res, nil
		}
		last = res.Value
	}
}

func (s *Scope) evalFor(n *ast.For) (Result, error) {
	loop := s.NewChild()
	if n.Init != nil {
		if _, err := loop.eval(n.Init); err != nil {
			return Result{}, err
		}
	}
	last := VoidValue()
	for {
		if n.Cond != nil {
			ok, err := loop.condition(n.Cond)
			if err != nil {
				return Result{}, err
			}
			if !ok {
				return normal(last), nil
			}
		}
		res, err := loop.eval(n.Body)
		if err != nil {
			return Result{}, err
		}
		if res.Returning {
			return res, nil
		}
		last = res.Value
		if n.Update != nil {
			if _, err := loop.eval(n.Update); err != nil {
				return Result{}, err
			}
		}
	}
}

func (s *Scope) evalForEach(n *ast.ForEach) (Result, error) {
	var elems []*Value
	switch it := n.Iterable.(type) {
	case *ast.Identifier:
		v, err := s.Get(it.Name)
		if err != nil {
			return Result{}, s.fail(it, err)
		}
		if v.Type != List {
			return Result{}, s.errorf(it, CondTypeError, "foreach over %s: %s is not a list", v.Type, it.Name)
		}
		elems = v.Cells
	case *ast.List:
		cells, err := s.evalList(it.Elems)
		if err != nil {
			return Result{}, err
		}
		elems = cells
	default:
		return Result{}, s.errorf(n, CondRuntimeError, "foreach requires a variable or a list literal")
	}
	last := VoidValue()
	for _, elem := range elems {
		iter := s.NewChild()
		if err := iter.Declare(n.Var, elem); err != nil {
			return Result{}, s.fail(n, err)
		}
		res, err := iter.eval(n.Body)
		if err != nil {
			return Result{}, err
		}
		if res.Returning {
			return res, nil
		}
		last = res.Value
	}
	return normal(last), nil
}

func (s *Scope) evalCall(n *ast.FunctionCall) (*Value, error) {
	rt := s.Runtime
	if b, ok := rt.Builtins[n.Name]; ok {
		args, err := s.evalList(n.Args)
		if err != nil {
			return nil, err
		}
		v, err := b.Call(s, args)
		if err != nil {
			return nil, s.fail(n, err)
		}
		return v, nil
	}
	def, err := s.GetFunction(n.Name)
	if err != nil {
		return nil, s.fail(n, err)
	}
	if len(n.Args) != len(def.Params) {
		return nil, s.errorf(n, CondArityError, "%s expects %d argument(s), got %d", def.Name, len(def.Params), len(n.Args))
	}
	args, err := s.evalList(n.Args)
	if err != nil {
		return nil, err
	}

	call := s.newCallScope()
	for i, param := range def.Params {
		if err := call.Declare(param, args[i]); err != nil {
			return nil, s.fail(n, err)
		}
	}
	if _, shadowed := call.vars[def.Name]; !shadowed {
		// self-binding for recursion
		if err := call.DeclareFunction(def); err != nil {
			return nil, s.fail(n, err)
		}
	}

	if err := rt.Stack.Push(n.Pos(), def); err != nil {
		return nil, s.errorf(n, CondStackOverflow, "%v", err)
	}
	defer rt.Stack.Pop()
	if rt.Profiler != nil && rt.Profiler.IsEnabled() {
		defer rt.Profiler.Start(rt.Stack.Top())()
	}
	res, err := call.eval(def.Body)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}
