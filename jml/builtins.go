// Copyright © 2018 The ELPS authors

package jml

import (
	"fmt"

	"github.com/luthersystems/jml/ast"
)

// BuiltinDef is a native function installed in every root environment.
type BuiltinDef interface {
	Name() string
	Params() []string
	Docstring() string
}

type langBuiltin struct {
	name   string
	params []string
	fun    Builtin
	doc    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Params() []string {
	return fun.params
}

func (fun *langBuiltin) Docstring() string {
	return fun.doc
}

func (fun *langBuiltin) value() *Value {
	v := NativeFun(fun.name, fun.params, fun.fun)
	v.Fun.Doc = fun.doc
	return v
}

var langBuiltins = []*langBuiltin{
	{"log", []string{"msg", "to_log"}, builtinLog,
		`Writes the display forms of msg and to_log to the runtime's stderr
		stream, separated by a colon, and returns to_log unchanged.`},
	{"map", []string{"list", "fn"}, builtinMap,
		`Returns a list containing the result of applying fn to each element
		of list, in order.`},
	{"filter", []string{"list", "fn"}, builtinFilter,
		`Returns a list of the elements of list for which fn returns true.
		Any result other than the boolean true drops the element.`},
	{"reduce", []string{"list", "acc", "fn"}, builtinReduce,
		`Folds list from the left.  Each element is combined with the
		accumulator by calling fn(elem, acc) and the final accumulator is
		returned.  An empty list returns acc.`},
	{"pluck", []string{"object"}, builtinPluck,
		`Returns the entries of object, in order, as a list of objects with
		"key" and "value" fields.`},
}

// DefaultBuiltins returns the builtin functions installed by NewEnv.
func DefaultBuiltins() []BuiltinDef {
	defs := make([]BuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		defs[i] = langBuiltins[i]
	}
	return defs
}

// AddBuiltins binds each builtin function in the top-level store of env.
func AddBuiltins(env *Env) {
	for _, fun := range langBuiltins {
		env.BindValue(fun.name, fun.value())
	}
}

func builtinLog(env *Env, span ast.Span, args []*Value) (*Value, error) {
	msg, v := args[0], args[1]
	_, err := fmt.Fprintf(env.Runtime.Stderr, "%v : %v\n", msg, v)
	if err != nil {
		return nil, env.runtimeError(span, GenericError{Msg: err.Error()})
	}
	return v, nil
}

func builtinMap(env *Env, span ast.Span, args []*Value) (*Value, error) {
	list, fn := args[0], args[1]
	if list.Kind != VList {
		return nil, env.typeError(span, MismatchedTypes{Expected: []Type{TList}, Found: list.Type()})
	}
	items := make([]*Value, len(list.Items))
	for i, item := range list.Items {
		v, err := env.ApplyValues(span, fn, []*Value{item})
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return List(items), nil
}

func builtinFilter(env *Env, span ast.Span, args []*Value) (*Value, error) {
	list, fn := args[0], args[1]
	if list.Kind != VList {
		return nil, env.typeError(span, MismatchedTypes{Expected: []Type{TList}, Found: list.Type()})
	}
	var items []*Value
	for _, item := range list.Items {
		keep, err := env.ApplyValues(span, fn, []*Value{item})
		if err != nil {
			return nil, err
		}
		if keep.IsTruthy() {
			items = append(items, item)
		}
	}
	return List(items), nil
}

func builtinReduce(env *Env, span ast.Span, args []*Value) (*Value, error) {
	list, acc, fn := args[0], args[1], args[2]
	if list.Kind != VList {
		return nil, env.typeError(span, MismatchedTypes{Expected: []Type{TList}, Found: list.Type()})
	}
	for _, item := range list.Items {
		var err error
		acc, err = env.ApplyValues(span, fn, []*Value{item, acc})
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func builtinPluck(env *Env, span ast.Span, args []*Value) (*Value, error) {
	obj := args[0]
	if obj.Kind != VObject {
		return nil, env.typeError(span, MismatchedTypes{Expected: []Type{TObject}, Found: obj.Type()})
	}
	entries := obj.Obj.Entries()
	items := make([]*Value, len(entries))
	for i, e := range entries {
		pair := NewObject()
		pair.Set("key", String(e.Key))
		pair.Set("value", e.Value)
		items[i] = ObjectValue(pair)
	}
	return List(items), nil
}
