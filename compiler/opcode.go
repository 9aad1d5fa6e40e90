// Copyright © 2018 The ELPS authors

package compiler

import "fmt"

// Opcode identifies a stack machine instruction.
type Opcode uint8

const (
	// Stack and memory
	PUSH  Opcode = iota // Push the operand
	LOAD                // Push the value at address operand
	STORE               // Pop into address operand
	POP                 // Discard the top of the stack

	// Arithmetic, pop b then a and push a op b
	ADD
	SUB
	MUL
	DIV
	IDIV
	MOD

	// Comparison, pop b then a and push 1 if a op b holds, otherwise 0
	EQ
	NE
	LT
	LE
	GT
	GE

	NOT // Push 1 if the popped value is 0, otherwise 0

	// Control flow.  Operands are offsets relative to the jump instruction.
	JMP // Unconditional jump
	JZ  // Pop and jump if the value is 0

	ALLOC  // Grow (or shrink when negative) local memory by operand slots
	PRINTC // Write the byte operand
	PRINTI // Pop and write the value as a decimal integer

	numOpcodes
)

// OpcodeInfo describes the stack effect of an opcode.
type OpcodeInfo struct {
	Name       string
	StackPop   int
	StackPush  int
	HasOperand bool
}

var opcodeInfoTable = [numOpcodes]OpcodeInfo{
	PUSH:  {"PUSH", 0, 1, true},
	LOAD:  {"LOAD", 0, 1, true},
	STORE: {"STORE", 1, 0, true},
	POP:   {"POP", 1, 0, false},

	ADD:  {"ADD", 2, 1, false},
	SUB:  {"SUB", 2, 1, false},
	MUL:  {"MUL", 2, 1, false},
	DIV:  {"DIV", 2, 1, false},
	IDIV: {"IDIV", 2, 1, false},
	MOD:  {"MOD", 2, 1, false},

	EQ: {"EQ", 2, 1, false},
	NE: {"NE", 2, 1, false},
	LT: {"LT", 2, 1, false},
	LE: {"LE", 2, 1, false},
	GT: {"GT", 2, 1, false},
	GE: {"GE", 2, 1, false},

	NOT: {"NOT", 1, 1, false},

	JMP: {"JMP", 0, 0, true},
	JZ:  {"JZ", 1, 0, true},

	ALLOC:  {"ALLOC", 0, 0, true},
	PRINTC: {"PRINTC", 0, 0, true},
	PRINTI: {"PRINTI", 1, 0, false},
}

// Info returns metadata for op.  Unknown opcodes are named UNKNOWN(n).
func (op Opcode) Info() OpcodeInfo {
	if op >= numOpcodes {
		return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(%d)", uint8(op))}
	}
	return opcodeInfoTable[op]
}

func (op Opcode) String() string {
	return op.Info().Name
}

// HasOperand reports whether instructions with op use their operand.
func (op Opcode) HasOperand() bool {
	return op.Info().HasOperand
}

// IsJump reports whether op transfers control.
func (op Opcode) IsJump() bool {
	return op == JMP || op == JZ
}
