// Copyright © 2018 The ELPS authors

package lang

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tanndlin/tanscript/parser/token"
)

// Condition is the programmatic classification of an Error.
type Condition string

// Error condition names.  These are stable API for programmatic error
// classification in tooling integrations.
const (
	CondLexerError           Condition = "lexer-error"
	CondParserError          Condition = "parser-error"
	CondUndeclaredVariable   Condition = "undeclared-variable"
	CondUndeclaredFunction   Condition = "undeclared-function"
	CondUseBeforeDeclaration Condition = "use-before-declaration"
	CondUndeclaredSignal     Condition = "undeclared-signal"
	CondInternalConsistency  Condition = "internal-consistency-error"
	CondRuntimeError         Condition = "runtime-error"
	CondArityError           Condition = "arity-error"
	CondTypeError            Condition = "type-error"
	CondStackOverflow        Condition = "stack-overflow"
	CondStepLimitExceeded    Condition = "step-limit-exceeded"
	CondContextCancelled     Condition = "context-cancelled"
)

// conditionParent maps a condition onto the broader condition it also
// satisfies under errors.Is.
var conditionParent = map[Condition]Condition{
	CondUndeclaredSignal: CondUndeclaredVariable,
	CondArityError:       CondRuntimeError,
	CondTypeError:        CondRuntimeError,
}

// Sentinel errors for use with errors.Is.
var (
	ErrLexer                = &Error{Condition: CondLexerError}
	ErrParser               = &Error{Condition: CondParserError}
	ErrUndeclaredVariable   = &Error{Condition: CondUndeclaredVariable}
	ErrUndeclaredFunction   = &Error{Condition: CondUndeclaredFunction}
	ErrUseBeforeDeclaration = &Error{Condition: CondUseBeforeDeclaration}
	ErrUndeclaredSignal     = &Error{Condition: CondUndeclaredSignal}
	ErrInternalConsistency  = &Error{Condition: CondInternalConsistency}
	ErrRuntime              = &Error{Condition: CondRuntimeError}
	ErrArity                = &Error{Condition: CondArityError}
	ErrType                 = &Error{Condition: CondTypeError}
	ErrStackOverflow        = &Error{Condition: CondStackOverflow}
	ErrStepLimitExceeded    = &Error{Condition: CondStepLimitExceeded}
	ErrContextCancelled     = &Error{Condition: CondContextCancelled}
)

// Error is a TanScript error.  Every Error aborts evaluation of the current
// program.
type Error struct {
	Condition Condition
	Message   string
	Source    *token.Location
	// Stack is a copy of the call stack at the time the error was raised.
	Stack *CallStack
	// Err is an underlying Go error, if any.
	Err error
}

// Errorf returns an Error with condition cond and a formatted message.
func Errorf(cond Condition, format string, v ...interface{}) *Error {
	return &Error{
		Condition: cond,
		Message:   fmt.Sprintf(format, v...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Source != nil {
		return fmt.Sprintf("%s: %s", e.Source, e.baseMessage())
	}
	return e.baseMessage()
}

func (e *Error) baseMessage() string {
	fname := e.FunName()
	if fname == "" {
		return fmt.Sprintf("%s: %s", e.Condition, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Condition, fname, e.Message)
}

// FunName returns the name of the user function on the top of the call stack
// when the error occurred.
func (e *Error) FunName() string {
	top := e.Stack.Top()
	if top == nil {
		return ""
	}
	return top.Name
}

// Is reports whether target is a sentinel Error whose condition matches e's
// condition or one of its broader conditions.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Message != "" {
		return false
	}
	for cond := e.Condition; cond != ""; cond = conditionParent[cond] {
		if cond == t.Condition {
			return true
		}
	}
	return false
}

// Unwrap returns the underlying Go error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WriteTrace writes the error and a stack trace to w
func (e *Error) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Stack != nil && len(e.Stack.Frames) > 0 {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}
