// Copyright © 2018 The ELPS authors

// Package compiler lowers TanScript programs to instructions for a simple
// stack machine.
//
// Only a subset of the language can be compiled: integer and boolean
// literals, variables, arithmetic, comparisons, logical operators, blocks,
// if and while statements and print.  Each declared variable occupies one
// memory slot.  Slots are reserved per block with a pair of ALLOC
// instructions, so that the addresses of a block are released when it ends.
package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/diagnostic"
	"github.com/tanndlin/tanscript/parser/token"
	"github.com/tanndlin/tanscript/util/errwrap"
)

// Sentinel errors matched by errors.Is against the errors returned by
// Compile.
var (
	ErrUnsupported = errors.New("unsupported")
	ErrUndeclared  = errors.New("undeclared variable")
	ErrRedeclared  = errors.New("variable redeclared")
	ErrConstant    = errors.New("invalid constant")
)

// Error is a problem found at a location in the program.
type Error struct {
	Source *token.Location
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Source == nil {
		return e.Msg
	}
	return e.Source.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Instruction is a single stack machine instruction.  Operand is ignored by
// opcodes that take none.
type Instruction struct {
	Op      Opcode
	Operand int
	Source  *token.Location
}

func (in Instruction) String() string {
	if !in.Op.HasOperand() {
		return in.Op.String()
	}
	if in.Op.IsJump() || in.Op == ALLOC {
		return fmt.Sprintf("%s %+d", in.Op, in.Operand)
	}
	return fmt.Sprintf("%s %d", in.Op, in.Operand)
}

// Compiler accumulates the instructions of one program.
type Compiler struct {
	code  []Instruction
	scope *slotScope
	err   error
}

// Compile lowers prog.  Every problem found in prog is reported in the
// returned error, which aggregates them.  When the error is not nil the
// returned instructions are nil.
func Compile(prog *ast.Program) ([]Instruction, error) {
	c := &Compiler{}
	c.compileBody(&token.Location{File: prog.File}, prog.Statements)
	if c.err != nil {
		return nil, c.err
	}
	return c.code, nil
}

func (c *Compiler) errorf(n ast.Node, cause error, format string, v ...interface{}) {
	var loc *token.Location
	if n != nil {
		loc = n.Pos()
	}
	c.err = errwrap.Append(c.err, &Error{
		Source: loc,
		Msg:    fmt.Sprintf(format, v...),
		Err:    cause,
	})
}

func (c *Compiler) unsupported(n ast.Node, what string) {
	c.errorf(n, ErrUnsupported, "%s: %s", ErrUnsupported, what)
}

func (c *Compiler) emit(loc *token.Location, op Opcode, operand int) int {
	c.code = append(c.code, Instruction{Op: op, Operand: operand, Source: loc})
	return len(c.code) - 1
}

// emitJump emits a jump whose target is set later by patchJump.
func (c *Compiler) emitJump(loc *token.Location, op Opcode) int {
	return c.emit(loc, op, 0)
}

// patchJump points the jump at index i to the next instruction emitted.
func (c *Compiler) patchJump(i int) {
	c.code[i].Operand = len(c.code) - i
}

// emitLoop emits a jump back to the instruction at index target.
func (c *Compiler) emitLoop(loc *token.Location, target int) {
	c.emit(loc, JMP, target-len(c.code))
}

// compileBody compiles a statement list in a new slot scope.  The slots of
// the scope are reserved before the statements run and released after.
func (c *Compiler) compileBody(loc *token.Location, stmts []ast.Node) {
	c.scope = newSlotScope(c.scope, countDeclarations(stmts))
	defer func() { c.scope = c.scope.parent }()
	n := c.scope.size
	if n > 0 {
		c.emit(loc, ALLOC, n)
	}
	for _, stmt := range stmts {
		c.compileStatement(stmt)
	}
	if n > 0 {
		c.emit(loc, ALLOC, -n)
	}
}

func countDeclarations(stmts []ast.Node) int {
	n := 0
	for _, stmt := range stmts {
		if _, ok := stmt.(*ast.Declaration); ok {
			n++
		}
	}
	return n
}

func (c *Compiler) compileStatement(n ast.Node) {
	switch n := n.(type) {
	case *ast.Semi:
	case *ast.Declaration:
		c.compileExpr(n.Value)
		addr, ok := c.scope.declare(n.Name)
		if !ok {
			c.errorf(n, ErrRedeclared, "variable %s is already declared in this block", n.Name)
			return
		}
		c.emit(n.Source, STORE, addr)
	case *ast.Assign:
		c.compileExpr(n.Value)
		addr, ok := c.scope.lookup(n.Name)
		if !ok {
			c.errorf(n, ErrUndeclared, "variable %s is not declared", n.Name)
			return
		}
		c.emit(n.Source, STORE, addr)
	case *ast.Block:
		c.compileBody(n.Source, n.Body)
	case *ast.If:
		c.compileIf(n)
	case *ast.While:
		c.compileWhile(n)
	case *ast.FunctionCall:
		if n.Name != "print" {
			c.unsupported(n, "call to "+n.Name)
			return
		}
		c.compilePrint(n)
	case *ast.For:
		c.unsupported(n, "for loop")
	case *ast.ForEach:
		c.unsupported(n, "foreach loop")
	case *ast.FunctionDef:
		c.unsupported(n, "function definition")
	case *ast.Return:
		c.unsupported(n, "return")
	case *ast.SignalAssign, *ast.ComputedSignalAssign:
		c.unsupported(n, "signal assignment")
	default:
		c.compileExpr(n)
		c.emit(n.Pos(), POP, 0)
	}
}

func (c *Compiler) compileIf(n *ast.If) {
	c.compileExpr(n.Cond)
	elseJump := c.emitJump(n.Source, JZ)
	c.compileBody(n.Then.Source, n.Then.Body)
	if n.Else == nil {
		c.patchJump(elseJump)
		return
	}
	endJump := c.emitJump(n.Source, JMP)
	c.patchJump(elseJump)
	c.compileBody(n.Else.Source, n.Else.Body)
	c.patchJump(endJump)
}

func (c *Compiler) compileWhile(n *ast.While) {
	top := len(c.code)
	c.compileExpr(n.Cond)
	exitJump := c.emitJump(n.Source, JZ)
	c.compileBody(n.Body.Source, n.Body.Body)
	c.emitLoop(n.Source, top)
	c.patchJump(exitJump)
}

// compilePrint writes a string literal byte by byte and any other value as
// an integer.  Each print ends with a newline.
func (c *Compiler) compilePrint(n *ast.FunctionCall) {
	if len(n.Args) != 1 {
		c.errorf(n, ErrUnsupported, "print expects 1 argument, got %d", len(n.Args))
		return
	}
	if s, ok := n.Args[0].(*ast.String); ok {
		for i := 0; i < len(s.Value); i++ {
			c.emit(s.Source, PRINTC, int(s.Value[i]))
		}
	} else {
		c.compileExpr(n.Args[0])
		c.emit(n.Source, PRINTI, 0)
	}
	c.emit(n.Source, PRINTC, '\n')
}

var opcodes = map[ast.Operator]Opcode{
	ast.Add:    ADD,
	ast.Sub:    SUB,
	ast.Mul:    MUL,
	ast.Div:    DIV,
	ast.IntDiv: IDIV,
	ast.Mod:    MOD,
	ast.Eq:     EQ,
	ast.Ne:     NE,
	ast.Lt:     LT,
	ast.Le:     LE,
	ast.Gt:     GT,
	ast.Ge:     GE,
}

// compileExpr emits code leaving the value of n on the stack.
func (c *Compiler) compileExpr(n ast.Node) {
	switch n := n.(type) {
	case *ast.Number:
		if n.Value != math.Trunc(n.Value) || math.Abs(n.Value) > math.MaxInt32 {
			c.errorf(n, ErrConstant, "number %s is not a machine integer", n)
			return
		}
		c.emit(n.Source, PUSH, int(n.Value))
	case *ast.Boolean:
		c.emit(n.Source, PUSH, boolInt(n.Value))
	case *ast.Identifier:
		addr, ok := c.scope.lookup(n.Name)
		if !ok {
			c.errorf(n, ErrUndeclared, "variable %s is not declared", n.Name)
			return
		}
		c.emit(n.Source, LOAD, addr)
	case *ast.Parenthesized:
		c.compileExpr(n.Expr)
	case *ast.BinaryOp:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emit(n.Source, opcodes[n.Op], 0)
	case *ast.Comparison:
		c.compileExpr(n.Left)
		c.compileExpr(n.Right)
		c.emit(n.Source, opcodes[n.Op], 0)
	case *ast.Logical:
		c.compileLogical(n)
	case *ast.String:
		c.unsupported(n, "string outside of print")
	case *ast.FunctionCall:
		c.unsupported(n, "call to "+n.Name)
	case *ast.List:
		c.unsupported(n, "list")
	case *ast.Object:
		c.unsupported(n, "object")
	case *ast.ObjectAccess:
		c.unsupported(n, "object access")
	case *ast.Signal, *ast.ComputedSignal:
		c.unsupported(n, "signal")
	default:
		c.unsupported(n, fmt.Sprintf("%T", n))
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compileLogical lowers the logical operators to jumps.  The right operand
// of && and || only runs when the left operand does not decide the result.
// Both leave 1 or 0 on the stack.
func (c *Compiler) compileLogical(n *ast.Logical) {
	c.compileExpr(n.Left)
	if n.Op == ast.Not {
		c.emit(n.Source, NOT, 0)
		return
	}
	var falseJumps, endJumps []int
	leftJump := c.emitJump(n.Source, JZ)
	if n.Op == ast.Or {
		c.emit(n.Source, PUSH, 1)
		endJumps = append(endJumps, c.emitJump(n.Source, JMP))
		c.patchJump(leftJump)
	} else {
		falseJumps = append(falseJumps, leftJump)
	}
	c.compileExpr(n.Right)
	falseJumps = append(falseJumps, c.emitJump(n.Source, JZ))
	c.emit(n.Source, PUSH, 1)
	endJumps = append(endJumps, c.emitJump(n.Source, JMP))
	for _, i := range falseJumps {
		c.patchJump(i)
	}
	c.emit(n.Source, PUSH, 0)
	for _, i := range endJumps {
		c.patchJump(i)
	}
}

// Diagnostic converts e for display by a diagnostic.Renderer.
func (e *Error) Diagnostic() diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  e.Msg,
	}
	if e.Err != nil {
		d.Code = e.Err.Error()
	}
	if e.Source != nil && e.Source.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File: e.Source.File,
			Line: e.Source.Line,
			Col:  e.Source.Col,
		})
	}
	return d
}
