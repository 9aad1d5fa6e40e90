// Copyright © 2018 The ELPS authors

package compiler

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of code.  Each line holds the
// index of an instruction followed by the instruction.  Jumps are annotated
// with the index of their target.
func Disassemble(code []Instruction) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("; %d instructions\n", len(code)))
	for i, in := range code {
		line := in.String()
		switch {
		case in.Op.IsJump():
			line = fmt.Sprintf("%-12s ; -> %04d", line, i+in.Operand)
		case in.Op == PRINTC:
			line = fmt.Sprintf("%-12s ; %q", line, rune(in.Operand))
		}
		sb.WriteString(fmt.Sprintf("%04d  %s\n", i, line))
	}
	return sb.String()
}
