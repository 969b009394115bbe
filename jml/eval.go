// Copyright © 2018 The ELPS authors

package jml

import (
	"fmt"
	"strconv"

	"github.com/luthersystems/jml/ast"
)

// Eval evaluates expr in env.  The returned error, when non-nil, is a
// *TypeError or a *RuntimeError.
func (env *Env) Eval(expr ast.Expr) (*Value, error) {
	switch n := expr.(type) {
	case nil:
		return nil, env.runtimeError(ast.Span{}, GenericError{Msg: "nil expression"})
	case *ast.Null:
		return Null(), nil
	case *ast.Bool:
		return Bool(n.Value), nil
	case *ast.Int:
		return Int(n.Value), nil
	case *ast.Float:
		return Float(n.Value), nil
	case *ast.String:
		return String(n.Value), nil
	case *ast.Variable:
		return env.evalVariable(n)
	case *ast.List:
		return env.evalList(n)
	case *ast.Object:
		return env.evalObject(n)
	case *ast.IndexAccess:
		return env.evalIndex(n)
	case *ast.Selector:
		return env.evalSelector(n)
	case *ast.UnaryOp:
		v, err := env.Eval(n.Expr)
		if err != nil {
			return nil, err
		}
		return env.unaryOp(n.Span, n.Op, v)
	case *ast.BinaryOp:
		lhs, err := env.Eval(n.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := env.Eval(n.Rhs)
		if err != nil {
			return nil, err
		}
		return env.binaryOp(n.Span, n.Op, lhs, rhs)
	case *ast.If:
		return env.evalIf(n)
	case *ast.Lambda:
		var closure *Frame
		if !env.Runtime.FlatScoping {
			closure = env.Local()
		}
		return Fun(n.Params, n.Body, closure), nil
	case *ast.Apply:
		return env.evalApply(n)
	default:
		return nil, env.runtimeError(expr.Source(), GenericError{
			Msg: fmt.Sprintf("unknown expression type: %T", expr),
		})
	}
}

func (env *Env) evalVariable(n *ast.Variable) (*Value, error) {
	b, err := env.Lookup(n.Name)
	if err != nil {
		return nil, env.runtimeError(n.Span, UndefinedVariable{Name: n.Name})
	}
	if !b.IsLazy() {
		return b.Value, nil
	}
	return env.evalLazy(b.Expr)
}

func (env *Env) evalList(n *ast.List) (*Value, error) {
	items := make([]*Value, len(n.Elems))
	for i, elem := range n.Elems {
		v, err := env.Eval(elem)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return List(items), nil
}

func (env *Env) evalObject(n *ast.Object) (*Value, error) {
	obj := NewObject()
	for _, entry := range n.Entries {
		key, err := env.evalKey(&entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := env.Eval(entry.Value)
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return ObjectValue(obj), nil
}

// evalKey returns the text of an object key.  Computed keys must evaluate to
// a string or a number.  The error for any other value names String only.
func (env *Env) evalKey(key *ast.Key) (string, error) {
	if key.Expr == nil {
		return key.Name, nil
	}
	v, err := env.Eval(key.Expr)
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case VString:
		return v.Str, nil
	case VInt:
		return strconv.FormatInt(v.Int, 10), nil
	case VFloat:
		return formatFloat(v.Float), nil
	default:
		return "", env.typeError(key.Span, MismatchedTypes{
			Expected: []Type{TString},
			Found:    v.Type(),
		})
	}
}

func (env *Env) evalIndex(n *ast.IndexAccess) (*Value, error) {
	idx, err := env.Eval(n.Index)
	if err != nil {
		return nil, err
	}
	if idx.Kind != VInt {
		return nil, env.typeError(n.Index.Source(), MismatchedTypes{
			Expected: []Type{TInt},
			Found:    idx.Type(),
		})
	}
	target, err := env.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	i := idx.Int
	switch target.Kind {
	case VList:
		if i < 0 || i >= int64(len(target.Items)) {
			return Null(), nil
		}
		return target.Items[i], nil
	case VString:
		if i < 0 {
			return Null(), nil
		}
		var pos int64
		for _, r := range target.Str {
			if pos == i {
				return String(string(r)), nil
			}
			pos++
		}
		return Null(), nil
	default:
		return nil, env.typeError(n.Target.Source(), MismatchedTypes{
			Expected: []Type{TList, TString},
			Found:    target.Type(),
		})
	}
}

func (env *Env) evalSelector(n *ast.Selector) (*Value, error) {
	target, err := env.Eval(n.Target)
	if err != nil {
		return nil, err
	}
	if target.Kind != VObject {
		return nil, env.typeError(n.Target.Source(), MismatchedTypes{
			Expected: []Type{TList, TString},
			Found:    target.Type(),
		})
	}
	v, ok := target.Obj.Get(n.Key)
	if !ok {
		return Null(), nil
	}
	return v, nil
}

func (env *Env) evalIf(n *ast.If) (*Value, error) {
	cond, err := env.Eval(n.Cond)
	if err != nil {
		return nil, err
	}
	if !cond.IsBool() {
		return nil, env.typeError(n.Cond.Source(), MismatchedTypes{
			Expected: []Type{TBool},
			Found:    cond.Type(),
		})
	}
	if cond.Bool {
		return env.Eval(n.Then)
	}
	return env.Eval(n.Else)
}

func (env *Env) evalApply(n *ast.Apply) (*Value, error) {
	fn, err := env.Eval(n.Lambda)
	if err != nil {
		return nil, err
	}
	var name string
	if v, ok := n.Lambda.(*ast.Variable); ok {
		name = v.Name
	}
	return env.apply(n.Span, name, fn, n.Args)
}
