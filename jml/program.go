// Copyright © 2018 The ELPS authors

package jml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/jml/ast"
)

// ErrNoReader is returned by Load when the runtime has no Reader.
var ErrNoReader = errors.New("no reader for environment runtime")

// NewEnv returns a root environment with the builtin functions bound.  The
// environment uses StandardRuntime modified by opts.
func NewEnv(opts ...Config) (*Env, error) {
	env := NewEnvRuntime(nil)
	for _, opt := range opts {
		if err := opt(env); err != nil {
			return nil, err
		}
	}
	AddBuiltins(env)
	return env, nil
}

// EvalProgram binds the header statements of prog, in order, and then
// evaluates its body.  Header expressions are not evaluated until the body
// references them, so a header binding may refer to a name bound after it.
func (env *Env) EvalProgram(prog *ast.Jml) (*Value, error) {
	for _, stmt := range prog.Header {
		switch s := stmt.(type) {
		case *ast.Bind:
			env.BindExpr(s.Identifier, s.Expr)
		default:
			return nil, env.runtimeError(stmt.Source(), GenericError{
				Msg: fmt.Sprintf("unknown statement type: %T", stmt),
			})
		}
	}
	if prog.Body == nil {
		return nil, env.runtimeError(ast.Span{}, GenericError{Msg: "program has no body expression"})
	}
	return env.Eval(prog.Body)
}

// Load reads a program from r using the runtime Reader and evaluates it.
// The name is used by the Reader to identify the source in errors.
func (env *Env) Load(name string, r io.Reader) (*Value, error) {
	if env.Runtime.Reader == nil {
		return nil, ErrNoReader
	}
	prog, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	if env.Runtime.debugEnabled() {
		env.Runtime.Logger.Debug("program loaded",
			"name", name,
			"bindings", len(prog.Header))
	}
	return env.EvalProgram(prog)
}

// LoadString evaluates the program text src.
func (env *Env) LoadString(name, src string) (*Value, error) {
	return env.Load(name, strings.NewReader(src))
}
