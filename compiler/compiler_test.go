// Copyright © 2018 The ELPS authors

package compiler

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanndlin/tanscript/ast"
	"github.com/tanndlin/tanscript/parser"
	"github.com/tanndlin/tanscript/util/errwrap"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.NewReader().Read("test", strings.NewReader(src))
	require.NoError(t, err, src)
	return prog
}

func compile(t *testing.T, src string) []Instruction {
	t.Helper()
	code, err := Compile(parse(t, src))
	require.NoError(t, err, src)
	return code
}

func listing(code []Instruction) []string {
	lines := make([]string, len(code))
	for i, in := range code {
		lines[i] = in.String()
	}
	return lines
}

// run executes code on a minimal implementation of the target machine and
// returns what it printed.
func run(t *testing.T, code []Instruction) string {
	t.Helper()
	var (
		stack []int
		mem   []int
		out   strings.Builder
	)
	push := func(x int) { stack = append(stack, x) }
	pop := func() int {
		require.NotEmpty(t, stack, "stack underflow")
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return x
	}
	for pc, steps := 0, 0; pc < len(code); steps++ {
		require.Less(t, steps, 100000, "program does not terminate")
		in := code[pc]
		next := pc + 1
		switch in.Op {
		case PUSH:
			push(in.Operand)
		case LOAD:
			push(mem[in.Operand])
		case STORE:
			mem[in.Operand] = pop()
		case POP:
			pop()
		case ADD, SUB, MUL, DIV, IDIV, MOD, EQ, NE, LT, LE, GT, GE:
			b, a := pop(), pop()
			push(binary(in.Op, a, b))
		case NOT:
			push(boolInt(pop() == 0))
		case JMP:
			next = pc + in.Operand
		case JZ:
			if pop() == 0 {
				next = pc + in.Operand
			}
		case ALLOC:
			if in.Operand > 0 {
				mem = append(mem, make([]int, in.Operand)...)
			} else {
				mem = mem[:len(mem)+in.Operand]
			}
		case PRINTC:
			out.WriteByte(byte(in.Operand))
		case PRINTI:
			out.WriteString(strconv.Itoa(pop()))
		default:
			t.Fatalf("unknown opcode %v", in.Op)
		}
		pc = next
	}
	assert.Empty(t, stack, "stack must be balanced")
	assert.Empty(t, mem, "memory must be released")
	return out.String()
}

func binary(op Opcode, a, b int) int {
	switch op {
	case ADD:
		return a + b
	case SUB:
		return a - b
	case MUL:
		return a * b
	case DIV, IDIV:
		return a / b
	case MOD:
		return a % b
	case EQ:
		return boolInt(a == b)
	case NE:
		return boolInt(a != b)
	case LT:
		return boolInt(a < b)
	case LE:
		return boolInt(a <= b)
	case GT:
		return boolInt(a > b)
	default:
		return boolInt(a >= b)
	}
}

func TestCompileRun(t *testing.T) {
	tests := []struct {
		source string
		output string
	}{
		{`print(1 + 2 * 3);`, "7\n"},
		{`print((1 + 2) * 3);`, "9\n"},
		{`print(-4 + 1);`, "-3\n"},
		{`let x = 10; let y = 3; print(x // y); print(x % y); print(x - y);`, "3\n1\n7\n"},
		{`print("hi");`, "hi\n"},
		{`print("");`, "\n"},
		{`let i = 0; let sum = 0; while (i < 5) { i = i + 1; sum = sum + i; } print(sum);`, "15\n"},
		{`let x = 4; if (x > 3) { print("big"); } else { print("small"); }`, "big\n"},
		{`let x = 2; if (x > 3) { print("big"); } else { print("small"); }`, "small\n"},
		{`let x = 2; if (x < 3) { print(x); }`, "2\n"},
		{`let x = 2; if (x == 1) { print(1); } else if (x == 2) { print(2); } else { print(3); }`, "2\n"},
		{`print(true && false); print(true && true); print(true || false); print(false || false); print(!false);`, "0\n1\n1\n0\n1\n"},
		{`print(1 < 2 && 2 < 3); print(1 >= 2 || 2 != 2);`, "1\n0\n"},
		{`let x = 0; print(x != 0 && 10 // x > 1); print(x == 0 || 10 // x > 1);`, "0\n1\n"},
		{`let a = 1; { let b = 2; print(a + b); } let c = 3; print(c);`, "3\n3\n"},
		{`let x = 1; { let x = 2; print(x); } print(x);`, "2\n1\n"},
		{`let n = 0; while (n < 3) { let sq = n * n; print(sq); n = n + 1; }`, "0\n1\n4\n"},
		{`let x = 5; x; 1 + 2;`, ""},
		{`;`, ""},
	}
	for _, test := range tests {
		code := compile(t, test.source)
		assert.Equal(t, test.output, run(t, code), test.source)
	}
}

func TestCompileListing(t *testing.T) {
	tests := []struct {
		source  string
		listing []string
	}{
		{
			`let x = 2; x = x * 3; print(x);`,
			[]string{
				"ALLOC +1",
				"PUSH 2", "STORE 0",
				"LOAD 0", "PUSH 3", "MUL", "STORE 0",
				"LOAD 0", "PRINTI", "PRINTC 10",
				"ALLOC -1",
			},
		},
		{
			`let x = 1; if (x) { print("a"); } else { print("b"); }`,
			[]string{
				"ALLOC +1",
				"PUSH 1", "STORE 0",
				"LOAD 0", "JZ +4",
				"PRINTC 97", "PRINTC 10", "JMP +3",
				"PRINTC 98", "PRINTC 10",
				"ALLOC -1",
			},
		},
		{
			`let i = 0; while (i < 2) { i = i + 1; }`,
			[]string{
				"ALLOC +1",
				"PUSH 0", "STORE 0",
				"LOAD 0", "PUSH 2", "LT", "JZ +6",
				"LOAD 0", "PUSH 1", "ADD", "STORE 0", "JMP -8",
				"ALLOC -1",
			},
		},
		{
			`let a = 1; { let b = 2; let c = b; }`,
			[]string{
				"ALLOC +1",
				"PUSH 1", "STORE 0",
				"ALLOC +2",
				"PUSH 2", "STORE 1",
				"LOAD 1", "STORE 2",
				"ALLOC -2",
				"ALLOC -1",
			},
		},
		{
			`true && false;`,
			[]string{
				"PUSH 1", "JZ +5",
				"PUSH 0", "JZ +3",
				"PUSH 1", "JMP +2",
				"PUSH 0",
				"POP",
			},
		},
		{
			`true || false;`,
			[]string{
				"PUSH 1", "JZ +3",
				"PUSH 1", "JMP +6",
				"PUSH 0", "JZ +3",
				"PUSH 1", "JMP +2",
				"PUSH 0",
				"POP",
			},
		},
	}
	for _, test := range tests {
		code := compile(t, test.source)
		assert.Equal(t, test.listing, listing(code), test.source)
	}
}

func TestCompileErrors(t *testing.T) {
	src := strings.Join([]string{
		`function f() {}`,
		`for (;;) {}`,
		`x #= 1;`,
		`let s = "a";`,
		`print(1, 2);`,
		`y = 1;`,
		`let z = 1.5;`,
		`let a = [1];`,
		`let a = 2;`,
		`f(a);`,
	}, "\n")
	code, err := Compile(parse(t, src))
	require.Error(t, err)
	assert.Nil(t, code)

	expect := []struct {
		msg    string
		target error
	}{
		{"test:1:1: unsupported: function definition", ErrUnsupported},
		{"test:2:1: unsupported: for loop", ErrUnsupported},
		{"test:3:1: unsupported: signal assignment", ErrUnsupported},
		{"test:4:9: unsupported: string outside of print", ErrUnsupported},
		{"test:5:1: print expects 1 argument, got 2", ErrUnsupported},
		{"test:6:1: variable y is not declared", ErrUndeclared},
		{"test:7:9: number 1.5 is not a machine integer", ErrConstant},
		{"test:8:9: unsupported: list", ErrUnsupported},
		{"test:9:1: variable a is already declared in this block", ErrRedeclared},
		{"test:10:1: unsupported: call to f", ErrUnsupported},
	}
	errs := errwrap.Errors(err)
	require.Len(t, errs, len(expect), err.Error())
	for i, e := range expect {
		assert.Equal(t, e.msg, errs[i].Error())
		assert.True(t, errors.Is(errs[i], e.target), errs[i].Error())
		var cerr *Error
		assert.True(t, errors.As(errs[i], &cerr))
	}
	assert.True(t, errors.Is(err, ErrRedeclared))
}

func TestCompileSingleError(t *testing.T) {
	_, err := Compile(parse(t, `#x;`))
	require.Error(t, err)
	assert.Len(t, errwrap.Errors(err), 1)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestOpcode(t *testing.T) {
	assert.Equal(t, "PUSH", PUSH.String())
	assert.Equal(t, "PRINTI", PRINTI.String())
	assert.Equal(t, "UNKNOWN(200)", Opcode(200).String())
	assert.True(t, JZ.IsJump())
	assert.False(t, ALLOC.IsJump())
	assert.True(t, STORE.HasOperand())
	assert.False(t, ADD.HasOperand())
	for op := PUSH; op < numOpcodes; op++ {
		assert.NotEmpty(t, op.Info().Name, "opcode %d", op)
	}
}

func TestErrorDiagnostic(t *testing.T) {
	_, err := Compile(parse(t, "let a = 1;\nb = a;"))
	require.Error(t, err)
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	d := cerr.Diagnostic()
	assert.Equal(t, "undeclared variable", d.Code)
	assert.Equal(t, "variable b is not declared", d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 2, d.Spans[0].Line)
	assert.Equal(t, 1, d.Spans[0].Col)
}
