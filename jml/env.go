// Copyright © 2018 The ELPS authors

package jml

import (
	"fmt"
	"sort"

	"github.com/luthersystems/jml/ast"
)

// Binding is the value of a name.  Top-level bindings are lazy: they hold
// the unevaluated Expr and are evaluated each time the name is referenced.
// Lambda parameters hold an already evaluated Value.
type Binding struct {
	Expr  ast.Expr
	Value *Value
}

// IsLazy returns true if b holds an unevaluated expression.
func (b *Binding) IsLazy() bool {
	return b.Value == nil
}

// Frame is a set of lambda parameter bindings.  A frame created by a lambda
// application links to the frame the lambda closed over so that nested
// lambdas can see the parameters of enclosing ones.
type Frame struct {
	bindings map[string]*Binding
	parent   *Frame
}

// NewFrame returns an empty frame whose lookups fall back to parent.
func NewFrame(parent *Frame) *Frame {
	return &Frame{
		bindings: make(map[string]*Binding),
		parent:   parent,
	}
}

// Bind binds name to an evaluated value in f, shadowing bindings in parent
// frames.
func (f *Frame) Bind(name string, v *Value) {
	f.bindings[name] = &Binding{Value: v}
}

// Get looks up name in f and then in its parents.
func (f *Frame) Get(name string) (*Binding, bool) {
	for ; f != nil; f = f.parent {
		if b, ok := f.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

func (f *Frame) names(seen map[string]bool) {
	for ; f != nil; f = f.parent {
		for name := range f.bindings {
			seen[name] = true
		}
	}
}

// Env is an evaluation environment.  It holds the top-level bindings of a
// program along with a stack of local frames for the lambda applications in
// progress.  An Env is not safe for concurrent use.
type Env struct {
	Runtime  *Runtime
	bindings map[string]*Binding
	locals   []*Frame
}

// NewEnvRuntime returns an Env with no bindings that uses rt.  If rt is nil
// StandardRuntime is used.
func NewEnvRuntime(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	if rt.Stack == nil {
		rt.Stack = &CallStack{}
	}
	return &Env{
		Runtime:  rt,
		bindings: make(map[string]*Binding),
	}
}

// BindExpr binds name to an unevaluated expression in the top-level store.
// Rebinding a name replaces it.
func (env *Env) BindExpr(name string, expr ast.Expr) {
	env.bindings[name] = &Binding{Expr: expr}
}

// BindValue binds name to an evaluated value in the top-level store.
func (env *Env) BindValue(name string, v *Value) {
	env.bindings[name] = &Binding{Value: v}
}

// PushLocal makes frame the active local frame.  Every call to PushLocal must
// be paired with a call to PopLocal.
func (env *Env) PushLocal(frame *Frame) {
	env.locals = append(env.locals, frame)
}

// PopLocal removes the active local frame, restoring the frame that was
// active before the matching PushLocal.
func (env *Env) PopLocal() {
	if len(env.locals) == 0 {
		panic("pop called with no active local frame")
	}
	env.locals[len(env.locals)-1] = nil
	env.locals = env.locals[:len(env.locals)-1]
}

// Local returns the active local frame or nil when evaluating at the top
// level.
func (env *Env) Local() *Frame {
	if len(env.locals) == 0 {
		return nil
	}
	return env.locals[len(env.locals)-1]
}

// Lookup resolves name against the active local frame and then the top-level
// store.  The returned error is a *RuntimeError with an UndefinedVariable
// kind and no source span.
func (env *Env) Lookup(name string) (*Binding, error) {
	if b, ok := env.Local().Get(name); ok {
		return b, nil
	}
	if b, ok := env.bindings[name]; ok {
		return b, nil
	}
	return nil, &RuntimeError{Kind: UndefinedVariable{Name: name}}
}

// Names returns the sorted names visible from the active local frame.
func (env *Env) Names() []string {
	seen := make(map[string]bool, len(env.bindings))
	for name := range env.bindings {
		seen[name] = true
	}
	env.Local().names(seen)
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply applies fn to the arguments produced by evaluating args in env.
// Argument expressions are not evaluated when fn is not a lambda or the
// number of arguments does not match its parameters.
func (env *Env) Apply(span ast.Span, fn *Value, args []ast.Expr) (*Value, error) {
	return env.apply(span, "", fn, args)
}

// ApplyValues applies fn to already evaluated arguments.  Builtins use
// ApplyValues to call lambdas given to them.
func (env *Env) ApplyValues(span ast.Span, fn *Value, args []*Value) (*Value, error) {
	if err := env.checkApplicable(span, fn, len(args)); err != nil {
		return nil, err
	}
	return env.call(span, "", fn, args)
}

func (env *Env) apply(span ast.Span, name string, fn *Value, argExprs []ast.Expr) (*Value, error) {
	if err := env.checkApplicable(span, fn, len(argExprs)); err != nil {
		return nil, err
	}
	args := make([]*Value, len(argExprs))
	for i, expr := range argExprs {
		v, err := env.Eval(expr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return env.call(span, name, fn, args)
}

func (env *Env) checkApplicable(span ast.Span, fn *Value, nargs int) error {
	if fn.Kind != VLambda {
		return env.typeError(span, MismatchedTypes{
			Expected: []Type{LambdaType(nargs)},
			Found:    fn.Type(),
		})
	}
	if len(fn.Fun.Params) != nargs {
		return env.typeError(span, ArgumentCountMismatch{
			ExpectedCount: len(fn.Fun.Params),
			ActualCount:   nargs,
		})
	}
	return nil
}

func (env *Env) call(span ast.Span, name string, fn *Value, args []*Value) (*Value, error) {
	if name == "" {
		name = fn.Fun.Name
	}
	if ctx := env.Runtime.Context; ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, env.runtimeError(span, GenericError{Msg: fmt.Sprintf("evaluation canceled: %v", err)})
		}
	}
	stack := env.Runtime.Stack
	err := stack.Push(span, name, fn.Fun.IsNative())
	if err != nil {
		return nil, env.runtimeError(span, GenericError{Msg: err.Error()})
	}
	defer stack.Pop()
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(*stack.Top())()
	}
	if env.Runtime.debugEnabled() {
		env.Runtime.Logger.Debug("apply",
			"name", name,
			"native", fn.Fun.IsNative(),
			"arity", len(args),
			"span", span.String(),
			"height", stack.Height())
	}

	if fn.Fun.IsNative() {
		return fn.Fun.Native(env, span, args)
	}
	var parent *Frame
	if !env.Runtime.FlatScoping {
		parent = fn.Fun.Closure
	}
	frame := NewFrame(parent)
	for i, param := range fn.Fun.Params {
		frame.Bind(param, args[i])
	}
	env.PushLocal(frame)
	defer env.PopLocal()
	return env.Eval(fn.Fun.Body)
}

// evalLazy evaluates the expression of a top-level binding.  With lexical
// scoping the expression cannot see the parameters of the lambda that
// referenced it.
func (env *Env) evalLazy(expr ast.Expr) (*Value, error) {
	if env.Runtime.FlatScoping || len(env.locals) == 0 {
		return env.Eval(expr)
	}
	saved := env.locals
	env.locals = nil
	defer func() { env.locals = saved }()
	return env.Eval(expr)
}

func (env *Env) typeError(span ast.Span, kind TypeErrorKind) error {
	return &TypeError{
		Span:  span,
		Kind:  kind,
		Stack: env.Runtime.Stack.Copy(),
	}
}

func (env *Env) runtimeError(span ast.Span, kind RuntimeErrorKind) error {
	return &RuntimeError{
		Span:  span,
		Kind:  kind,
		Stack: env.Runtime.Stack.Copy(),
	}
}
