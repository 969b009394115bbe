// Copyright © 2024 The ELPS authors

// Package astutil provides shared syntax tree walking utilities.
//
// These helpers are used by the lint analyzers when inspecting parsed jml
// programs.
package astutil

import "github.com/luthersystems/jml/ast"

// Walk calls fn for every node in the tree, depth-first.
// parent is nil for top-level expressions.
func Walk(exprs []ast.Expr, fn func(node ast.Expr, parent ast.Expr, depth int)) {
	for _, expr := range exprs {
		walkNode(expr, nil, 0, fn)
	}
}

// WalkProgram walks every header binding expression and then the body.
func WalkProgram(prog *ast.Jml, fn func(node ast.Expr, parent ast.Expr, depth int)) {
	Walk(ProgramExprs(prog), fn)
}

// ProgramExprs returns the header binding expressions of prog followed by its
// body.
func ProgramExprs(prog *ast.Jml) []ast.Expr {
	var exprs []ast.Expr
	for _, stmt := range prog.Header {
		if bind, ok := stmt.(*ast.Bind); ok {
			exprs = append(exprs, bind.Expr)
		}
	}
	if prog.Body != nil {
		exprs = append(exprs, prog.Body)
	}
	return exprs
}

func walkNode(node ast.Expr, parent ast.Expr, depth int, fn func(ast.Expr, ast.Expr, int)) {
	if node == nil {
		return
	}
	fn(node, parent, depth)
	for _, child := range Children(node) {
		walkNode(child, node, depth+1, fn)
	}
}

// Children returns the direct subexpressions of node in evaluation order.
func Children(node ast.Expr) []ast.Expr {
	switch n := node.(type) {
	case *ast.List:
		return n.Elems
	case *ast.Object:
		var c []ast.Expr
		for _, e := range n.Entries {
			if e.Key.Expr != nil {
				c = append(c, e.Key.Expr)
			}
			c = append(c, e.Value)
		}
		return c
	case *ast.IndexAccess:
		return []ast.Expr{n.Index, n.Target}
	case *ast.Selector:
		return []ast.Expr{n.Target}
	case *ast.UnaryOp:
		return []ast.Expr{n.Expr}
	case *ast.BinaryOp:
		return []ast.Expr{n.Lhs, n.Rhs}
	case *ast.If:
		return []ast.Expr{n.Cond, n.Then, n.Else}
	case *ast.Lambda:
		return []ast.Expr{n.Body}
	case *ast.Apply:
		c := make([]ast.Expr, 0, len(n.Args)+1)
		c = append(c, n.Lambda)
		return append(c, n.Args...)
	default:
		return nil
	}
}
