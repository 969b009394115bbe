// Copyright © 2024 The ELPS authors

package ast

import (
	"strconv"
	"strings"
)

// Format renders expr as a fully parenthesized prefix expression.  The output
// is stable and is used to compare parse trees in tests and debug logs.
func Format(expr Expr) string {
	var b strings.Builder
	format(&b, expr)
	return b.String()
}

// FormatProgram renders a complete program, one header binding per line,
// followed by the body.
func FormatProgram(prog *Jml) string {
	var b strings.Builder
	for _, stmt := range prog.Header {
		if bind, ok := stmt.(*Bind); ok {
			b.WriteString("(= ")
			b.WriteString(bind.Identifier)
			b.WriteString(" ")
			format(&b, bind.Expr)
			b.WriteString(")\n")
		}
	}
	if prog.Body != nil {
		format(&b, prog.Body)
	}
	return b.String()
}

func format(b *strings.Builder, expr Expr) {
	switch n := expr.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Null:
		b.WriteString("null")
	case *Bool:
		b.WriteString(strconv.FormatBool(n.Value))
	case *Int:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *Float:
		s := strconv.FormatFloat(n.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		b.WriteString(s)
	case *String:
		b.WriteString(strconv.Quote(n.Value))
	case *Variable:
		b.WriteString(n.Name)
	case *List:
		b.WriteString("[")
		for i, e := range n.Elems {
			if i > 0 {
				b.WriteString(" ")
			}
			format(b, e)
		}
		b.WriteString("]")
	case *Object:
		b.WriteString("{")
		for i, e := range n.Entries {
			if i > 0 {
				b.WriteString(" ")
			}
			if e.Key.Expr != nil {
				b.WriteString("[")
				format(b, e.Key.Expr)
				b.WriteString("]")
			} else {
				b.WriteString(strconv.Quote(e.Key.Name))
			}
			b.WriteString(":")
			format(b, e.Value)
		}
		b.WriteString("}")
	case *IndexAccess:
		b.WriteString("(index ")
		format(b, n.Target)
		b.WriteString(" ")
		format(b, n.Index)
		b.WriteString(")")
	case *Selector:
		b.WriteString("(. ")
		format(b, n.Target)
		b.WriteString(" ")
		b.WriteString(n.Key)
		b.WriteString(")")
	case *UnaryOp:
		b.WriteString("(")
		b.WriteString(n.Op.String())
		b.WriteString(" ")
		format(b, n.Expr)
		b.WriteString(")")
	case *BinaryOp:
		b.WriteString("(")
		b.WriteString(n.Op.String())
		b.WriteString(" ")
		format(b, n.Lhs)
		b.WriteString(" ")
		format(b, n.Rhs)
		b.WriteString(")")
	case *If:
		b.WriteString("(if ")
		format(b, n.Cond)
		b.WriteString(" ")
		format(b, n.Then)
		b.WriteString(" ")
		format(b, n.Else)
		b.WriteString(")")
	case *Lambda:
		b.WriteString("(lambda (")
		b.WriteString(strings.Join(n.Params, " "))
		b.WriteString(") ")
		format(b, n.Body)
		b.WriteString(")")
	case *Apply:
		b.WriteString("(call ")
		format(b, n.Lambda)
		for _, arg := range n.Args {
			b.WriteString(" ")
			format(b, arg)
		}
		b.WriteString(")")
	default:
		b.WriteString("<unknown>")
	}
}
