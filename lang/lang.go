// Copyright © 2018 The ELPS authors

// Package lang implements the TanScript evaluator: runtime values, the scope
// model, the reactive signal graph and the built-in function registry.
package lang

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/util/errwrap"
)

// NewRootScope returns the global scope of a fresh StandardRuntime with each
// config applied in order.
func NewRootScope(config ...Config) (*Scope, error) {
	return NewRootScopeRuntime(StandardRuntime(), config...)
}

// NewRootScopeRuntime is like NewRootScope but uses the given runtime.
func NewRootScopeRuntime(rt *Runtime, config ...Config) (*Scope, error) {
	s := newScope(rt, nil, nil)
	for _, fn := range config {
		if err := fn(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Read parses the program in r using s.Runtime.Reader and applies the
// runtime's Optimizer, if any.
func (s *Scope) Read(name string, r io.Reader) (*ast.Program, error) {
	if s.Runtime.Reader == nil {
		return nil, Errorf(CondRuntimeError, "no reader for environment runtime")
	}
	prog, err := s.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	if s.Runtime.Optimizer != nil {
		prog = s.Runtime.Optimizer.Optimize(prog)
	}
	return prog, nil
}

// Load reads a program from r and evaluates it in s.  The value of the last
// evaluated statement is returned.  Nothing is evaluated when the program
// fails to parse.
func (s *Scope) Load(name string, r io.Reader) (*Value, error) {
	prog, err := s.Read(name, r)
	if err != nil {
		return nil, err
	}
	return s.EvalProgram(prog)
}

// LoadString is like Load but reads the program from src.
func (s *Scope) LoadString(name, src string) (*Value, error) {
	return s.Load(name, strings.NewReader(src))
}

// LoadFile reads and evaluates the program stored at path.
func (s *Scope) LoadFile(path string) (*Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errwrap.Wrapf(err, "unable to read %s", path)
	}
	return s.Load(path, bytes.NewReader(src))
}
