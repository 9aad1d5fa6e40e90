// Copyright © 2018 The ELPS authors

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisassemble(t *testing.T) {
	code := compile(t, `let i = 0; while (i < 2) { i = i + 1; } print("!");`)
	expect := `; 15 instructions
0000  ALLOC +1
0001  PUSH 0
0002  STORE 0
0003  LOAD 0
0004  PUSH 2
0005  LT
0006  JZ +6        ; -> 0012
0007  LOAD 0
0008  PUSH 1
0009  ADD
0010  STORE 0
0011  JMP -8       ; -> 0003
0012  PRINTC 33    ; '!'
0013  PRINTC 10    ; '\n'
0014  ALLOC -1
`
	assert.Equal(t, expect, Disassemble(code))
}

func TestDisassembleEmpty(t *testing.T) {
	assert.Equal(t, "; 0 instructions\n", Disassemble(nil))
}
