// Copyright © 2018 The ELPS authors

package ast

// Operator identifies the operation of a BinaryOp, Comparison or Logical
// node.
type Operator uint

// Operators, grouped by the node type that carries them.
const (
	InvalidOp Operator = iota

	Add
	Sub
	Mul
	Div
	IntDiv
	Mod

	Lt
	Le
	Gt
	Ge
	Eq
	Ne

	And
	Or
	Not

	numOperators
)

var operatorStrings = [numOperators]string{
	InvalidOp: "<invalid>",
	Add:       "+",
	Sub:       "-",
	Mul:       "*",
	Div:       "/",
	IntDiv:    "//",
	Mod:       "%",
	Lt:        "<",
	Le:        "<=",
	Gt:        ">",
	Ge:        ">=",
	Eq:        "==",
	Ne:        "!=",
	And:       "&&",
	Or:        "||",
	Not:       "!",
}

func (op Operator) String() string {
	if op >= numOperators {
		return operatorStrings[InvalidOp]
	}
	return operatorStrings[op]
}

// IsArithmetic reports whether op is carried by BinaryOp nodes.
func (op Operator) IsArithmetic() bool { return Add <= op && op <= Mod }

// IsComparison reports whether op is carried by Comparison nodes.
func (op Operator) IsComparison() bool { return Lt <= op && op <= Ne }

// IsLogical reports whether op is carried by Logical nodes.
func (op Operator) IsLogical() bool { return And <= op && op <= Not }
