// Copyright © 2018 The ELPS authors

package jml

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/luthersystems/jml/ast"
)

// ValueKind is the variant tag of a Value.
type ValueKind uint

// ValueKind constants
const (
	// VNull is the unit value null.
	VNull ValueKind = iota
	// VBool is a boolean value.
	VBool
	// VInt is a 64-bit signed integer.
	VInt
	// VFloat is a 64-bit floating point number.
	VFloat
	// VString is a string of text.
	VString
	// VList is an ordered, heterogeneous sequence of values.
	VList
	// VObject is a string keyed mapping that preserves insertion order.
	VObject
	// VLambda is a callable function, either defined in the language or
	// implemented natively.
	VLambda
)

var valueKindStrings = []string{
	VNull:   "Null",
	VBool:   "Bool",
	VInt:    "Int",
	VFloat:  "Float",
	VString: "String",
	VList:   "List",
	VObject: "Object",
	VLambda: "Lambda",
}

func (k ValueKind) String() string {
	if int(k) >= len(valueKindStrings) {
		return "Invalid"
	}
	return valueKindStrings[k]
}

// Value is a runtime value.  Values are immutable once constructed and may be
// shared freely.  Use the constructor functions (Null, Int, List, ...) rather
// than composite literals.
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Items []*Value
	Obj   *Object
	Fun   *Lambda
}

// Builtin is the Go implementation of a native lambda.  Args have already
// been evaluated in the caller's environment and their number matches the
// lambda's parameter list.
type Builtin func(env *Env, span ast.Span, args []*Value) (*Value, error)

// Lambda is the payload of a VLambda value.  Exactly one of Body and Native
// is set.
type Lambda struct {
	Params []string
	Body   ast.Expr
	Native Builtin

	// Name is the builtin name, or empty for anonymous lambdas.
	Name string
	// Doc is a documentation string for builtins.
	Doc string
	// Closure is the frame that was active when the lambda was constructed.
	// It is nil for builtins and for lambdas created at the top level.
	Closure *Frame
}

// IsNative returns true if the lambda is implemented in Go.
func (fn *Lambda) IsNative() bool {
	return fn.Native != nil
}

// Null returns the null value.
func Null() *Value {
	return &Value{Kind: VNull}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{Kind: VBool, Bool: b}
}

// Int returns an integer value.
func Int(x int64) *Value {
	return &Value{Kind: VInt, Int: x}
}

// Float returns a floating point value.
func Float(x float64) *Value {
	return &Value{Kind: VFloat, Float: x}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{Kind: VString, Str: s}
}

// List returns a list containing items.  The caller must not modify items
// after the call.
func List(items []*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{Kind: VList, Items: items}
}

// ObjectValue returns an object value backed by obj.  The caller must not
// modify obj after the call.
func ObjectValue(obj *Object) *Value {
	if obj == nil {
		obj = NewObject()
	}
	return &Value{Kind: VObject, Obj: obj}
}

// Fun returns a lambda value defined by params and body that closes over
// closure.
func Fun(params []string, body ast.Expr, closure *Frame) *Value {
	return &Value{Kind: VLambda, Fun: &Lambda{
		Params:  params,
		Body:    body,
		Closure: closure,
	}}
}

// NativeFun returns a lambda value implemented by fn.
func NativeFun(name string, params []string, fn Builtin) *Value {
	return &Value{Kind: VLambda, Fun: &Lambda{
		Params: params,
		Native: fn,
		Name:   name,
	}}
}

// Type returns the type classification of v.
func (v *Value) Type() Type {
	if v.Kind == VLambda {
		return LambdaType(len(v.Fun.Params))
	}
	return Type{Kind: v.Kind}
}

// IsNumber returns true if v is an Int or a Float.
func (v *Value) IsNumber() bool {
	return v.Type().IsNumber()
}

// IsBool returns true if v is a Bool.
func (v *Value) IsBool() bool {
	return v.Kind == VBool
}

// IsTruthy returns true only for Bool(true).  Every other value, including
// non-zero numbers and non-empty collections, is falsy.
func (v *Value) IsTruthy() bool {
	return v.Kind == VBool && v.Bool
}

// IsZero returns true if v is a numeric zero.
func (v *Value) IsZero() bool {
	switch v.Kind {
	case VInt:
		return v.Int == 0
	case VFloat:
		return v.Float == 0
	default:
		return false
	}
}

// IsComparable returns true if v may be an operand of an equality test.
func (v *Value) IsComparable() bool {
	return v.Type().IsComparable()
}

// IsOrd returns true if v may be an operand of an ordering comparison.
func (v *Value) IsOrd() bool {
	return v.Type().IsOrd()
}

// Equal tests structural equality.  Numbers are not promoted, so Int(1) and
// Float(1) are not equal.  Objects are equal when they hold the same entries
// regardless of order.  Lambdas are only equal to themselves.  NaN is not
// equal to anything, including itself.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil || v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case VNull:
		return true
	case VBool:
		return v.Bool == other.Bool
	case VInt:
		return v.Int == other.Int
	case VFloat:
		return v.Float == other.Float
	case VString:
		return v.Str == other.Str
	case VList:
		if len(v.Items) != len(other.Items) {
			return false
		}
		for i := range v.Items {
			if !v.Items[i].Equal(other.Items[i]) {
				return false
			}
		}
		return true
	case VObject:
		return v.Obj.Equal(other.Obj)
	case VLambda:
		// Lambdas of the same arity are equal.
		return len(v.Fun.Params) == len(other.Fun.Params)
	default:
		return false
	}
}

// String returns the display form of v, as written by log.
func (v *Value) String() string {
	var buf bytes.Buffer
	v.write(&buf)
	return buf.String()
}

func (v *Value) write(buf *bytes.Buffer) {
	switch v.Kind {
	case VNull:
		buf.WriteString("null")
	case VBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case VInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case VFloat:
		buf.WriteString(formatFloat(v.Float))
	case VString:
		buf.WriteByte('"')
		buf.WriteString(v.Str)
		buf.WriteByte('"')
	case VList:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.write(buf)
		}
		buf.WriteByte(']')
	case VObject:
		buf.WriteByte('{')
		for i, e := range v.Obj.Entries() {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteByte('"')
			buf.WriteString(e.Key)
			buf.WriteString(`": `)
			e.Value.write(buf)
		}
		buf.WriteByte('}')
	case VLambda:
		buf.WriteString("lambda (")
		buf.WriteString(strings.Join(v.Fun.Params, ", "))
		buf.WriteString(") -> output")
	default:
		buf.WriteString("<invalid>")
	}
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
