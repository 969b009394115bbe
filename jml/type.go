// Copyright © 2024 The ELPS authors

package jml

import "strings"

// Type describes the type of a value in error messages and operator
// applicability checks.  Arity is only meaningful for lambdas.
type Type struct {
	Kind  ValueKind
	Arity int
}

// Types of the non-function values.
var (
	TNull   = Type{Kind: VNull}
	TBool   = Type{Kind: VBool}
	TInt    = Type{Kind: VInt}
	TFloat  = Type{Kind: VFloat}
	TString = Type{Kind: VString}
	TList   = Type{Kind: VList}
	TObject = Type{Kind: VObject}
)

// LambdaType returns the type of a lambda taking arity arguments.
func LambdaType(arity int) Type {
	return Type{Kind: VLambda, Arity: arity}
}

// IsComparable returns false only for lambdas.
func (t Type) IsComparable() bool {
	return t.Kind != VLambda
}

// IsOrd returns false for lists, objects and lambdas.
func (t Type) IsOrd() bool {
	switch t.Kind {
	case VList, VObject, VLambda:
		return false
	default:
		return true
	}
}

// IsNumber returns true for Int and Float.
func (t Type) IsNumber() bool {
	return t.Kind == VInt || t.Kind == VFloat
}

// IsBool returns true for Bool.
func (t Type) IsBool() bool {
	return t.Kind == VBool
}

func (t Type) String() string {
	if t.Kind != VLambda {
		return t.Kind.String()
	}
	params := make([]string, t.Arity)
	for i := range params {
		params[i] = string(rune('a' + i%26))
	}
	return "Fn (" + strings.Join(params, ", ") + ") -> output"
}

func typeList(types []Type) string {
	s := make([]string, len(types))
	for i := range types {
		s[i] = types[i].String()
	}
	return "[" + strings.Join(s, ", ") + "]"
}
