// Copyright © 2018 The ELPS authors

package lang

import (
	"sort"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/astutil"
)

// binding is the value of a name in a Scope.  Variables and functions share
// a single namespace so exactly one of value and fun is set.
type binding struct {
	value *Value
	fun   *ast.FunctionDef
}

// Scope is a node in the tree of environments holding variable, function
// and signal bindings.  Name resolution searches the scope, then its lexical
// parents, then the root (global) scope of the tree.
type Scope struct {
	Runtime *Runtime
	ID      uint
	// Parent is the enclosing lexical scope.  Parent is nil for the root
	// scope and for function call scopes.
	Parent *Scope
	// Global is the root scope of the tree.  Global is nil for the root
	// scope itself.
	Global *Scope

	vars    map[string]*binding
	signals map[string]SignalID
}

func newScope(rt *Runtime, parent *Scope, global *Scope) *Scope {
	s := &Scope{
		Runtime: rt,
		ID:      rt.genScopeID(),
		Parent:  parent,
		Global:  global,
		vars:    make(map[string]*binding),
		signals: make(map[string]SignalID),
	}
	rt.debugf("scope %d created (parent %d)", s.ID, parent.id())
	return s
}

func (s *Scope) id() uint {
	if s == nil {
		return 0
	}
	return s.ID
}

// Root returns the global scope of the tree containing s.
func (s *Scope) Root() *Scope {
	if s.Global == nil {
		return s
	}
	return s.Global
}

// NewChild returns a new scope whose lexical parent is s.
func (s *Scope) NewChild() *Scope {
	return newScope(s.Runtime, s, s.Root())
}

// newCallScope returns a scope for a function call.  The call scope can see
// only the global scope.
func (s *Scope) newCallScope() *Scope {
	return newScope(s.Runtime, nil, s.Root())
}

// lookup finds the binding for name searching s, its parents and finally the
// global scope.
func (s *Scope) lookup(name string) *binding {
	for env := s; env != nil; env = env.Parent {
		if b, ok := env.vars[name]; ok {
			return b
		}
		if env.Parent == nil && env.Global != nil {
			if b, ok := env.Global.vars[name]; ok {
				return b
			}
		}
	}
	return nil
}

// Get returns the value bound to name.
func (s *Scope) Get(name string) (*Value, error) {
	b := s.lookup(name)
	if b == nil {
		return nil, Errorf(CondUndeclaredVariable, "variable %s is not declared", name)
	}
	if b.fun != nil {
		return nil, Errorf(CondTypeError, "%s is a function and cannot be used as a value", name)
	}
	return b.value, nil
}

// Declare binds name to v in s.  Declaring a name already bound in s itself
// is an internal consistency error.
func (s *Scope) Declare(name string, v *Value) error {
	if _, ok := s.vars[name]; ok {
		return Errorf(CondInternalConsistency, "%s is already declared in this scope", name)
	}
	s.vars[name] = &binding{value: v}
	return nil
}

// Set stores v in the nearest existing binding of name.
func (s *Scope) Set(name string, v *Value) error {
	b := s.lookup(name)
	if b == nil {
		return Errorf(CondUseBeforeDeclaration, "variable %s is assigned before it is declared", name)
	}
	b.value = v
	b.fun = nil
	return nil
}

// DeclareFunction binds def in s under its name.  A function may replace a
// function of the same name in s but not a variable.
func (s *Scope) DeclareFunction(def *ast.FunctionDef) error {
	if b, ok := s.vars[def.Name]; ok && b.fun == nil {
		return Errorf(CondInternalConsistency, "function %s collides with a variable declared in this scope", def.Name)
	}
	s.vars[def.Name] = &binding{fun: def}
	return nil
}

// GetFunction returns the user function bound to name.
func (s *Scope) GetFunction(name string) (*ast.FunctionDef, error) {
	b := s.lookup(name)
	if b == nil || b.fun == nil {
		return nil, Errorf(CondUndeclaredFunction, "function %s is not declared", name)
	}
	return b.fun, nil
}

// lookupSignal searches s and its lexical parents.  The global scope is not
// consulted.
func (s *Scope) lookupSignal(name string) (SignalID, bool) {
	for env := s; env != nil; env = env.Parent {
		if id, ok := env.signals[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// GetSignal returns the handle of the signal called name.
func (s *Scope) GetSignal(name string) (SignalID, error) {
	id, ok := s.lookupSignal(name)
	if !ok {
		return 0, Errorf(CondUndeclaredSignal, "signal %s is not declared", name)
	}
	return id, nil
}

// SignalValue returns the current value of the signal called name.
func (s *Scope) SignalValue(name string) (*Value, error) {
	id, err := s.GetSignal(name)
	if err != nil {
		return nil, err
	}
	return s.Runtime.Signals.Value(id)
}

// SetSignal writes v to the signal called name, creating it in s if no
// visible signal has that name.  Dependents of the signal are marked dirty.
func (s *Scope) SetSignal(name string, v *Value) SignalID {
	g := s.Runtime.Signals
	id, ok := s.lookupSignal(name)
	if !ok {
		id = g.NewSignal(name, v)
		s.signals[name] = id
		return id
	}
	g.Set(id, v)
	return id
}

// SetSignalCompute binds the signal called name to expr, evaluated in s.
// The expression is evaluated once to seed the signal and the seeded value
// is returned.  An existing visible signal of that name is rebound in place
// so that its dependents remain attached.
func (s *Scope) SetSignalCompute(name string, expr ast.Node) (*Value, error) {
	g := s.Runtime.Signals
	var deps []SignalID
	for _, ref := range astutil.SignalRefs(expr) {
		id, err := s.GetSignal(ref.Name)
		if err != nil {
			return nil, err
		}
		deps = append(deps, id)
	}
	recompute := func() (*Value, error) {
		return s.evalExpr(expr)
	}
	seed, err := recompute()
	if err != nil {
		return nil, err
	}
	id, ok := s.lookupSignal(name)
	if !ok {
		id = g.NewSignal(name, seed)
		s.signals[name] = id
	}
	err = g.Bind(id, deps, seed, recompute)
	if err != nil {
		return nil, err
	}
	s.Runtime.debugf("signal %s bound to %s", name, expr)
	return seed, nil
}

// Names returns the variable and function names visible from s, sorted.
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(env *Scope) {
		for name := range env.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for env := s; env != nil; env = env.Parent {
		add(env)
	}
	if s.Global != nil {
		add(s.Global)
	}
	sort.Strings(names)
	return names
}

// SignalNames returns the signal names visible from s, sorted.
func (s *Scope) SignalNames() []string {
	seen := make(map[string]bool)
	var names []string
	for env := s; env != nil; env = env.Parent {
		for name := range env.signals {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
