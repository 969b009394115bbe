// Copyright © 2024 The ELPS authors

// Package ast declares the syntax tree consumed by the jml evaluator.  Every
// node records the byte range of source text it was parsed from so that
// evaluation failures can be reported against the original program.
package ast

import "fmt"

// Span locates a node in source text as a byte offset and a byte length.
type Span struct {
	Offset int
	Length int
}

// End returns the offset of the first byte following s.
func (s Span) End() int {
	return s.Offset + s.Length
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Offset, s.End())
}

// Join returns the smallest span covering both a and b.
func Join(a, b Span) Span {
	start := a.Offset
	if b.Offset < start {
		start = b.Offset
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	return Span{Offset: start, Length: end - start}
}

// Node is implemented by every syntax tree node.
type Node interface {
	Source() Span
}

// Expr is an expression node.  The set of expression types is closed; the
// evaluator handles every type declared in this file.
type Expr interface {
	Node
	exprNode()
}

// Statement is a top-level declaration in a program header.
type Statement interface {
	Node
	stmtNode()
}

// Jml is a complete program: a header of bindings followed by the body
// expression whose value is the program result.
type Jml struct {
	Header []Statement
	Body   Expr
}

// Bind introduces a lazily evaluated top-level name.
type Bind struct {
	Span       Span
	Identifier string
	Expr       Expr
}

type (
	// Null is the null literal.
	Null struct {
		Span Span
	}

	// Bool is a boolean literal.
	Bool struct {
		Span  Span
		Value bool
	}

	// Int is an integer literal.
	Int struct {
		Span  Span
		Value int64
	}

	// Float is a floating point literal.
	Float struct {
		Span  Span
		Value float64
	}

	// String is a string literal with escapes already decoded.
	String struct {
		Span  Span
		Value string
	}

	// Variable is a reference to a bound name.
	Variable struct {
		Span Span
		Name string
	}

	// List constructs a list from its element expressions.
	List struct {
		Span  Span
		Elems []Expr
	}

	// Object constructs an object.  Entries are evaluated in order.
	Object struct {
		Span    Span
		Entries []*Entry
	}

	// IndexAccess is target[index].
	IndexAccess struct {
		Span   Span
		Target Expr
		Index  Expr
	}

	// Selector is target.key.
	Selector struct {
		Span    Span
		Target  Expr
		Key     string
		KeySpan Span
	}

	// UnaryOp applies a prefix operator.
	UnaryOp struct {
		Span Span
		Op   UnaryOperator
		Expr Expr
	}

	// BinaryOp applies an infix operator.
	BinaryOp struct {
		Span Span
		Op   BinaryOperator
		Lhs  Expr
		Rhs  Expr
	}

	// If selects between two branches.
	If struct {
		Span Span
		Cond Expr
		Then Expr
		Else Expr
	}

	// Lambda is a function literal.
	Lambda struct {
		Span   Span
		Params []string
		Body   Expr
	}

	// Apply calls a function value.
	Apply struct {
		Span   Span
		Lambda Expr
		Args   []Expr
	}
)

// Entry is a single key/value pair inside an Object expression.
type Entry struct {
	Key   Key
	Value Expr
}

// Key is an object key.  When Expr is nil the key is the literal Name,
// otherwise the key is computed by evaluating Expr.
type Key struct {
	Span Span
	Name string
	Expr Expr
}

func (n *Bind) Source() Span        { return n.Span }
func (n *Null) Source() Span        { return n.Span }
func (n *Bool) Source() Span        { return n.Span }
func (n *Int) Source() Span         { return n.Span }
func (n *Float) Source() Span       { return n.Span }
func (n *String) Source() Span      { return n.Span }
func (n *Variable) Source() Span    { return n.Span }
func (n *List) Source() Span        { return n.Span }
func (n *Object) Source() Span      { return n.Span }
func (n *IndexAccess) Source() Span { return n.Span }
func (n *Selector) Source() Span    { return n.Span }
func (n *UnaryOp) Source() Span     { return n.Span }
func (n *BinaryOp) Source() Span    { return n.Span }
func (n *If) Source() Span          { return n.Span }
func (n *Lambda) Source() Span      { return n.Span }
func (n *Apply) Source() Span       { return n.Span }

func (*Bind) stmtNode() {}

func (*Null) exprNode()        {}
func (*Bool) exprNode()        {}
func (*Int) exprNode()         {}
func (*Float) exprNode()       {}
func (*String) exprNode()      {}
func (*Variable) exprNode()    {}
func (*List) exprNode()        {}
func (*Object) exprNode()      {}
func (*IndexAccess) exprNode() {}
func (*Selector) exprNode()    {}
func (*UnaryOp) exprNode()     {}
func (*BinaryOp) exprNode()    {}
func (*If) exprNode()          {}
func (*Lambda) exprNode()      {}
func (*Apply) exprNode()       {}
