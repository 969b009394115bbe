// Copyright © 2024 The ELPS authors

package ast

// BinaryOperator identifies an infix operator.
type BinaryOperator uint

// BinaryOperator constants.
const (
	OpInvalid BinaryOperator = iota
	OpEQ
	OpNE
	OpGT
	OpLT
	OpGE
	OpLE
	OpSum
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpAnd
	OpOr
	OpConcat
	numBinaryOps
)

var binaryOpStrings = [numBinaryOps]string{
	OpInvalid: "<invalid>",
	OpEQ:      "==",
	OpNE:      "!=",
	OpGT:      ">",
	OpLT:      "<",
	OpGE:      ">=",
	OpLE:      "<=",
	OpSum:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpDiv:     "/",
	OpPow:     "^",
	OpMod:     "%",
	OpAnd:     "&&",
	OpOr:      "||",
	OpConcat:  "++",
}

func (op BinaryOperator) String() string {
	if op >= numBinaryOps {
		return binaryOpStrings[OpInvalid]
	}
	return binaryOpStrings[op]
}

// UnaryOperator identifies a prefix operator.
type UnaryOperator uint

// UnaryOperator constants.
const (
	OpMinus UnaryOperator = iota
	OpNot
)

func (op UnaryOperator) String() string {
	switch op {
	case OpMinus:
		return "-"
	case OpNot:
		return "!"
	default:
		return "<invalid>"
	}
}
