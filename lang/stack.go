// Copyright © 2018 The ELPS authors

package lang

import (
	"fmt"
	"io"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/parser/token"
)

// CallStack is the stack of active user function calls.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	// Source is the location of the call expression.
	Source *token.Location
	Name   string
	Def    *ast.FunctionDef
}

func (f *CallFrame) String() string {
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, f.Name)
	}
	return f.Name
}

// Copy creates a copy of the current stack so that it can be attach to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeight: s.MaxHeight,
		Frames:    frames,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Push pushes a frame for a call to def from src.  Push fails when the stack
// is already at its maximum height.
func (s *CallStack) Push(src *token.Location, def *ast.FunctionDef) error {
	if s.MaxHeight > 0 && s.MaxHeight <= len(s.Frames) {
		return &StackOverflowError{len(s.Frames) + 1}
	}
	s.Frames = append(s.Frames, CallFrame{
		Source: src,
		Name:   def.Name,
		Def:    def,
	})
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.  Pop panics
// if the stack is empty.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

type StackOverflowError struct {
	Height int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack height exceeded maximum: %v", e.Height)
}
