// Copyright © 2018 The ELPS authors

package jml

import (
	"math"
	"strings"

	"github.com/luthersystems/jml/ast"
)

func (env *Env) binaryOp(span ast.Span, op ast.BinaryOperator, lhs, rhs *Value) (*Value, error) {
	switch op {
	case ast.OpEQ:
		return Bool(lhs.Equal(rhs)), nil
	case ast.OpNE:
		return Bool(!lhs.Equal(rhs)), nil
	case ast.OpGT, ast.OpLT, ast.OpGE, ast.OpLE:
		return env.compare(span, op, lhs, rhs)
	case ast.OpSum, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return env.arith(span, op, lhs, rhs)
	case ast.OpPow:
		return env.pow(span, lhs, rhs)
	case ast.OpAnd, ast.OpOr:
		if !lhs.IsBool() || !rhs.IsBool() {
			return nil, env.invalidBinary(span, op, lhs, rhs)
		}
		if op == ast.OpAnd {
			return Bool(lhs.Bool && rhs.Bool), nil
		}
		return Bool(lhs.Bool || rhs.Bool), nil
	case ast.OpConcat:
		return env.concat(span, lhs, rhs)
	default:
		return nil, env.invalidBinary(span, op, lhs, rhs)
	}
}

func (env *Env) invalidBinary(span ast.Span, op ast.BinaryOperator, lhs, rhs *Value) error {
	return env.typeError(span, InvalidBinaryOperator{
		Operator: op.String(),
		Left:     lhs.Type(),
		Right:    rhs.Type(),
	})
}

func (env *Env) compare(span ast.Span, op ast.BinaryOperator, lhs, rhs *Value) (*Value, error) {
	if !lhs.IsOrd() {
		return nil, env.typeError(span, NotOrderedType{Found: lhs.Type()})
	}
	if !rhs.IsOrd() {
		return nil, env.typeError(span, NotOrderedType{Found: rhs.Type()})
	}
	switch {
	case lhs.Kind == VInt && rhs.Kind == VInt:
		return Bool(ordered(op, lhs.Int, rhs.Int)), nil
	case lhs.IsNumber() && rhs.IsNumber():
		return Bool(ordered(op, toFloat(lhs), toFloat(rhs))), nil
	case lhs.Kind == VString && rhs.Kind == VString:
		return Bool(ordered(op, lhs.Str, rhs.Str)), nil
	case lhs.Kind == VBool && rhs.Kind == VBool:
		return Bool(ordered(op, boolRank(lhs.Bool), boolRank(rhs.Bool))), nil
	default:
		return nil, env.invalidBinary(span, op, lhs, rhs)
	}
}

type orderable interface {
	~int | ~int64 | ~float64 | ~string
}

// ordered compares with the native operators so that NaN compares false
// against everything.
func ordered[T orderable](op ast.BinaryOperator, a, b T) bool {
	switch op {
	case ast.OpGT:
		return a > b
	case ast.OpLT:
		return a < b
	case ast.OpGE:
		return a >= b
	case ast.OpLE:
		return a <= b
	}
	return false
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toFloat(v *Value) float64 {
	if v.Kind == VInt {
		return float64(v.Int)
	}
	return v.Float
}

func (env *Env) arith(span ast.Span, op ast.BinaryOperator, lhs, rhs *Value) (*Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return nil, env.invalidBinary(span, op, lhs, rhs)
	}
	if (op == ast.OpDiv || op == ast.OpMod) && rhs.IsZero() {
		return nil, env.runtimeError(span, DivisionByZero{})
	}
	if lhs.Kind == VInt && rhs.Kind == VInt {
		x, ok := intArith(op, lhs.Int, rhs.Int)
		if !ok {
			return nil, env.runtimeError(span, Overflow{})
		}
		return Int(x), nil
	}
	a, b := toFloat(lhs), toFloat(rhs)
	switch op {
	case ast.OpSum:
		return Float(a + b), nil
	case ast.OpSub:
		return Float(a - b), nil
	case ast.OpMul:
		return Float(a * b), nil
	case ast.OpDiv:
		return Float(a / b), nil
	default:
		return Float(math.Mod(a, b)), nil
	}
}

// intArith performs checked integer arithmetic.  The divisor of OpDiv and
// OpMod must be non-zero.
func intArith(op ast.BinaryOperator, a, b int64) (int64, bool) {
	switch op {
	case ast.OpSum:
		r := a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return 0, false
		}
		return r, true
	case ast.OpSub:
		r := a - b
		if (b > 0 && r > a) || (b < 0 && r < a) {
			return 0, false
		}
		return r, true
	case ast.OpMul:
		return checkedMul(a, b)
	case ast.OpDiv:
		if a == math.MinInt64 && b == -1 {
			return 0, false
		}
		return a / b, true
	default:
		if b == -1 {
			return 0, true
		}
		return a % b, true
	}
}

func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	r := a * b
	if r/b != a {
		return 0, false
	}
	return r, true
}

// checkedPow computes base^exp by repeated squaring for exp >= 0.
func checkedPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		var ok bool
		if exp&1 == 1 {
			result, ok = checkedMul(result, base)
			if !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			base, ok = checkedMul(base, base)
			if !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func (env *Env) pow(span ast.Span, lhs, rhs *Value) (*Value, error) {
	if !lhs.IsNumber() || !rhs.IsNumber() {
		return nil, env.invalidBinary(span, ast.OpPow, lhs, rhs)
	}
	if lhs.Kind == VInt && rhs.Kind == VInt {
		if rhs.Int < 0 {
			return nil, env.runtimeError(span, GenericError{Msg: "negative integer exponent"})
		}
		x, ok := checkedPow(lhs.Int, rhs.Int)
		if !ok {
			return nil, env.runtimeError(span, Overflow{})
		}
		return Int(x), nil
	}
	return Float(math.Pow(toFloat(lhs), toFloat(rhs))), nil
}

func (env *Env) concat(span ast.Span, lhs, rhs *Value) (*Value, error) {
	switch {
	case lhs.Kind == VList && rhs.Kind == VList:
		items := make([]*Value, 0, len(lhs.Items)+len(rhs.Items))
		items = append(items, lhs.Items...)
		items = append(items, rhs.Items...)
		return List(items), nil
	case lhs.Kind == VString && rhs.Kind == VString:
		var b strings.Builder
		b.Grow(len(lhs.Str) + len(rhs.Str))
		b.WriteString(lhs.Str)
		b.WriteString(rhs.Str)
		return String(b.String()), nil
	default:
		return nil, env.invalidBinary(span, ast.OpConcat, lhs, rhs)
	}
}

func (env *Env) unaryOp(span ast.Span, op ast.UnaryOperator, v *Value) (*Value, error) {
	switch {
	case op == ast.OpMinus && v.Kind == VInt:
		if v.Int == math.MinInt64 {
			return nil, env.runtimeError(span, Overflow{})
		}
		return Int(-v.Int), nil
	case op == ast.OpMinus && v.Kind == VFloat:
		return Float(-v.Float), nil
	case op == ast.OpNot && v.Kind == VBool:
		return Bool(!v.Bool), nil
	default:
		return nil, env.typeError(span, InvalidUnaryOperator{
			Operator: op.String(),
			Right:    v.Type(),
		})
	}
}
