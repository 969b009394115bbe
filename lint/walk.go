// Copyright © 2024 The ELPS authors

package lint

import (
	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/astutil"
	"github.com/luthersystems/jml/jml"
)

// scope is the set of lambda parameters visible at a point in a program.
type scope struct {
	names  map[string]bool
	parent *scope
}

func (s *scope) has(name string) bool {
	for ; s != nil; s = s.parent {
		if s.names[name] {
			return true
		}
	}
	return false
}

func (s *scope) all(names map[string]bool) {
	for ; s != nil; s = s.parent {
		for name := range s.names {
			names[name] = true
		}
	}
}

// WalkScoped calls fn for every variable reference in expr.  The inLambda
// argument reports whether the reference is inside a lambda body and
// isParam whether it resolves to an enclosing lambda parameter.
func WalkScoped(expr ast.Expr, fn func(v *ast.Variable, inLambda, isParam bool)) {
	walkScoped(expr, nil, func(v *ast.Variable, s *scope) {
		fn(v, s != nil, s.has(v.Name))
	})
}

func walkScoped(expr ast.Expr, s *scope, fn func(*ast.Variable, *scope)) {
	switch n := expr.(type) {
	case nil:
		return
	case *ast.Variable:
		fn(n, s)
	case *ast.Lambda:
		inner := &scope{names: make(map[string]bool, len(n.Params)), parent: s}
		for _, p := range n.Params {
			inner.names[p] = true
		}
		walkScoped(n.Body, inner, fn)
	default:
		for _, child := range astutil.Children(expr) {
			walkScoped(child, s, fn)
		}
	}
}

// bindings returns the header bindings of prog.
func bindings(prog *ast.Jml) []*ast.Bind {
	var binds []*ast.Bind
	for _, stmt := range prog.Header {
		if bind, ok := stmt.(*ast.Bind); ok {
			binds = append(binds, bind)
		}
	}
	return binds
}

// walkProgram calls fn for each binding expression, with its binding, and
// then for the body with a nil binding.
func walkProgram(prog *ast.Jml, fn func(bind *ast.Bind, expr ast.Expr)) {
	for _, bind := range bindings(prog) {
		fn(bind, bind.Expr)
	}
	if prog.Body != nil {
		fn(nil, prog.Body)
	}
}

func builtinNames() map[string]bool {
	names := make(map[string]bool)
	for _, def := range jml.DefaultBuiltins() {
		names[def.Name()] = true
	}
	return names
}
