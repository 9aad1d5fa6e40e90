// Copyright © 2018 The ELPS authors

package lang

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// BuiltinFunc is the implementation of a built-in function.  Arguments have
// already been evaluated in the caller's scope.
type BuiltinFunc func(s *Scope, args []*Value) (*Value, error)

// Builtin is a named function implemented in Go.  Built-ins are consulted
// before user functions when a call is resolved.
type Builtin struct {
	Name string
	// Arity is the exact number of arguments.  A negative Arity -n accepts
	// n-1 or more arguments.
	Arity int
	Docs  string
	Fn    BuiltinFunc
}

// Call checks the arity of args and invokes b.
func (b *Builtin) Call(s *Scope, args []*Value) (*Value, error) {
	switch {
	case b.Arity >= 0 && len(args) != b.Arity:
		return nil, Errorf(CondArityError, "%s expects %d argument(s), got %d", b.Name, b.Arity, len(args))
	case b.Arity < 0 && len(args) < -b.Arity-1:
		return nil, Errorf(CondArityError, "%s expects at least %d argument(s), got %d", b.Name, -b.Arity-1, len(args))
	}
	return b.Fn(s, args)
}

var userBuiltins = []*Builtin{
	{"print", 1, "Writes its argument and a newline to standard output and returns the argument unchanged.", builtinPrint},
	{"sqrt", 1, "Returns the floating point square root of a number.", mathFn("sqrt", math.Sqrt)},
	{"abs", 1, "Returns the absolute value of a number.", mathFn("abs", math.Abs)},
	{"floor", 1, "Returns the greatest integer value less than or equal to a number.", mathFn("floor", math.Floor)},
	{"ceil", 1, "Returns the least integer value greater than or equal to a number.", mathFn("ceil", math.Ceil)},
	{"round", 1, "Returns the nearest integer to a number, rounding half away from zero.", mathFn("round", math.Round)},
	{"pow", 2, "Returns the first argument raised to the power of the second.", builtinPow},
	{"min", -2, "Returns the smallest of one or more numbers.", extremum("min", func(a, b float64) bool { return a < b })},
	{"max", -2, "Returns the largest of one or more numbers.", extremum("max", func(a, b float64) bool { return a > b })},
	{"len", 1, "Returns the number of elements in a list, characters in a string, or attributes of an object.", builtinLen},
	{"str", 1, "Returns the printed representation of a value as a string.", builtinStr},
	{"num", 1, "Parses a string as a number.  Numbers are returned unchanged and booleans convert to 0 or 1.", builtinNum},
	{"type", 1, "Returns the name of the type of a value.", builtinType},
	{"range", -2, "range(n) returns the list [0, 1, ..., n-1].  range(a, b) returns [a, ..., b-1].", builtinRange},
	{"push", 2, "Returns a new list containing the elements of a list followed by a value.  The list argument is not modified.", builtinPush},
	{"keys", 1, "Returns the sorted attribute names of an object.", builtinKeys},
}

// DefaultBuiltins returns the registry of standard built-in functions.
func DefaultBuiltins() map[string]*Builtin {
	m := make(map[string]*Builtin, len(userBuiltins))
	for _, b := range userBuiltins {
		m[b.Name] = b
	}
	return m
}

// BuiltinNames returns the sorted names of the functions in builtins.
func BuiltinNames(builtins map[string]*Builtin) []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func typeError(fn string, want Type, got *Value) error {
	return Errorf(CondTypeError, "%s expects argument of type %s, got %s", fn, want, got.Type)
}

func builtinPrint(s *Scope, args []*Value) (*Value, error) {
	_, err := fmt.Fprintln(s.Runtime.Stdout, args[0].String())
	if err != nil {
		return nil, &Error{Condition: CondRuntimeError, Message: err.Error(), Err: err}
	}
	return args[0], nil
}

func mathFn(name string, fn func(float64) float64) BuiltinFunc {
	return func(s *Scope, args []*Value) (*Value, error) {
		if args[0].Type != Number {
			return nil, typeError(name, Number, args[0])
		}
		return Num(fn(args[0].Num)), nil
	}
}

func builtinPow(s *Scope, args []*Value) (*Value, error) {
	for _, arg := range args {
		if arg.Type != Number {
			return nil, typeError("pow", Number, arg)
		}
	}
	return Num(math.Pow(args[0].Num, args[1].Num)), nil
}

func extremum(name string, better func(a, b float64) bool) BuiltinFunc {
	return func(s *Scope, args []*Value) (*Value, error) {
		if len(args) == 1 && args[0].Type == List {
			args = args[0].Cells
			if len(args) == 0 {
				return nil, Errorf(CondRuntimeError, "%s of an empty list", name)
			}
		}
		best := args[0]
		for _, arg := range args {
			if arg.Type != Number {
				return nil, typeError(name, Number, arg)
			}
			if better(arg.Num, best.Num) {
				best = arg
			}
		}
		return best, nil
	}
}

func builtinLen(s *Scope, args []*Value) (*Value, error) {
	switch v := args[0]; v.Type {
	case List:
		return Num(float64(len(v.Cells))), nil
	case String:
		return Num(float64(len([]rune(v.Str)))), nil
	case Object:
		return Num(float64(len(v.Attrs))), nil
	default:
		return nil, typeError("len", List, v)
	}
}

func builtinStr(s *Scope, args []*Value) (*Value, error) {
	return Str(args[0].String()), nil
}

func builtinNum(s *Scope, args []*Value) (*Value, error) {
	switch v := args[0]; v.Type {
	case Number:
		return v, nil
	case Boolean:
		if v.Bool {
			return Num(1), nil
		}
		return Num(0), nil
	case String:
		x, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil, Errorf(CondRuntimeError, "num: cannot parse %q as a number", v.Str)
		}
		return Num(x), nil
	default:
		return nil, typeError("num", String, v)
	}
}

func builtinType(s *Scope, args []*Value) (*Value, error) {
	return Str(args[0].Type.String()), nil
}

func builtinRange(s *Scope, args []*Value) (*Value, error) {
	if len(args) > 2 {
		return nil, Errorf(CondArityError, "range expects 1 or 2 arguments, got %d", len(args))
	}
	for _, arg := range args {
		if arg.Type != Number {
			return nil, typeError("range", Number, arg)
		}
	}
	lo, hi := 0.0, args[0].Num
	if len(args) == 2 {
		lo, hi = args[0].Num, args[1].Num
	}
	var cells []*Value
	for x := lo; x < hi; x++ {
		cells = append(cells, Num(x))
	}
	return ListOf(cells...), nil
}

func builtinPush(s *Scope, args []*Value) (*Value, error) {
	list := args[0]
	if list.Type != List {
		return nil, typeError("push", List, list)
	}
	cells := make([]*Value, 0, len(list.Cells)+1)
	cells = append(cells, list.Cells...)
	cells = append(cells, args[1])
	return ListOf(cells...), nil
}

func builtinKeys(s *Scope, args []*Value) (*Value, error) {
	obj := args[0]
	if obj.Type != Object {
		return nil, typeError("keys", Object, obj)
	}
	keys := obj.Keys()
	cells := make([]*Value, len(keys))
	for i, k := range keys {
		cells[i] = Str(k)
	}
	return ListOf(cells...), nil
}
