// Copyright © 2018 The ELPS authors

package rdparser

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser/token"
)

type reader struct {
}

// NewReader returns a jml.Reader to use in a jml.Runtime.
func NewReader() jml.Reader {
	return &reader{}
}

// Read implements jml.Reader.
func (*reader) Read(name string, r io.Reader) (*ast.Jml, error) {
	s, err := token.ReadScanner(name, r)
	if err != nil {
		return nil, err
	}
	return New(s).ParseProgram()
}

// Parser is a jml parser.
type Parser struct {
	src *TokenSource
}

// NewFromSource initializes and returns a Parser that reads tokens from src.
func NewFromSource(src *TokenSource) *Parser {
	return &Parser{
		src: src,
	}
}

// New initializes and returns a new Parser that reads tokens from scanner.
func New(scanner *token.Scanner) *Parser {
	return NewFromSource(NewTokenSource(scanner))
}

// ParseProgram parses a complete program.  A program is either a single
// expression, or a header of bindings separated from the body expression by
// a line containing "---".
func (p *Parser) ParseProgram() (*ast.Jml, error) {
	prog := &ast.Jml{}
	for p.atBinding() {
		bind, err := p.ParseBinding()
		if err != nil {
			return nil, err
		}
		prog.Header = append(prog.Header, bind)
		p.Accept(token.SEMICOLON)
	}
	if !p.Accept(token.SEPARATOR) && len(prog.Header) > 0 {
		return nil, p.unexpected("'---' after bindings")
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	prog.Body = body
	if !p.src.IsEOF() {
		return nil, p.unexpected("end of input")
	}
	return prog, nil
}

func (p *Parser) atBinding() bool {
	return p.PeekType() == token.IDENT && p.src.PeekAt(1).Type == token.ASSIGN
}

// ParseBinding parses a header binding, `name = expr`.
func (p *Parser) ParseBinding() (*ast.Bind, error) {
	if !p.Accept(token.IDENT) {
		return nil, p.unexpected("identifier")
	}
	name := p.src.Token
	if !p.Accept(token.ASSIGN) {
		return nil, p.unexpected("'='")
	}
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Bind{
		Span:       ast.Join(name.Span, expr.Source()),
		Identifier: name.Text,
		Expr:       expr,
	}, nil
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() (ast.Expr, error) {
	switch p.PeekType() {
	case token.BACKSLASH:
		return p.ParseLambda()
	case token.IF:
		return p.ParseIf()
	default:
		return p.parseBinary(0)
	}
}

// ParseLambda parses `\x y. body`.
func (p *Parser) ParseLambda() (ast.Expr, error) {
	if !p.Accept(token.BACKSLASH) {
		return nil, p.unexpected("'\\'")
	}
	start := p.src.Token.Span
	params := []string{}
	for p.Accept(token.IDENT) {
		params = append(params, p.TokenText())
	}
	if !p.Accept(token.DOT) {
		return nil, p.unexpected("parameter name or '.'")
	}
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Lambda{
		Span:   ast.Join(start, body.Source()),
		Params: params,
		Body:   body,
	}, nil
}

// ParseIf parses `if cond then a else b`.
func (p *Parser) ParseIf() (ast.Expr, error) {
	if !p.Accept(token.IF) {
		return nil, p.unexpected("'if'")
	}
	start := p.src.Token.Span
	cond, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.Accept(token.THEN) {
		return nil, p.unexpected("'then'")
	}
	then, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.Accept(token.ELSE) {
		return nil, p.unexpected("'else'")
	}
	els, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.If{
		Span: ast.Join(start, els.Source()),
		Cond: cond,
		Then: then,
		Else: els,
	}, nil
}

// binaryLevels lists the infix operators from the lowest precedence to the
// highest.  All of them are left associative.
var binaryLevels = []map[token.Type]ast.BinaryOperator{
	{token.OR: ast.OpOr},
	{token.AND: ast.OpAnd},
	{token.EQ: ast.OpEQ, token.NE: ast.OpNE},
	{token.LT: ast.OpLT, token.GT: ast.OpGT, token.LE: ast.OpLE, token.GE: ast.OpGE},
	{token.CONCAT: ast.OpConcat},
	{token.PLUS: ast.OpSum, token.MINUS: ast.OpSub},
	{token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod},
}

func (p *Parser) parseBinary(level int) (ast.Expr, error) {
	if level >= len(binaryLevels) {
		return p.ParseUnary()
	}
	lhs, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryLevels[level][p.PeekType()]
		if !ok {
			return lhs, nil
		}
		p.ReadToken()
		rhs, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		lhs = &ast.BinaryOp{
			Span: ast.Join(lhs.Source(), rhs.Source()),
			Op:   op,
			Lhs:  lhs,
			Rhs:  rhs,
		}
	}
}

// ParseUnary parses a prefix operator application or a power expression.
func (p *Parser) ParseUnary() (ast.Expr, error) {
	var op ast.UnaryOperator
	switch {
	case p.Accept(token.MINUS):
		op = ast.OpMinus
	case p.Accept(token.BANG):
		op = ast.OpNot
	default:
		return p.ParsePower()
	}
	start := p.src.Token.Span
	expr, err := p.ParseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryOp{
		Span: ast.Join(start, expr.Source()),
		Op:   op,
		Expr: expr,
	}, nil
}

// ParsePower parses exponentiation, which is right associative and binds
// tighter than prefix operators on its left.
func (p *Parser) ParsePower() (ast.Expr, error) {
	base, err := p.ParsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.Accept(token.CARET) {
		return base, nil
	}
	exp, err := p.ParseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryOp{
		Span: ast.Join(base.Source(), exp.Source()),
		Op:   ast.OpPow,
		Lhs:  base,
		Rhs:  exp,
	}, nil
}

// ParsePostfix parses a primary expression followed by any number of index,
// selector and call suffixes.
func (p *Parser) ParsePostfix() (ast.Expr, error) {
	expr, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.Accept(token.BRACKET_L):
			idx, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if !p.Accept(token.BRACKET_R) {
				return nil, p.unexpected("']'")
			}
			expr = &ast.IndexAccess{
				Span:   ast.Join(expr.Source(), p.src.Token.Span),
				Target: expr,
				Index:  idx,
			}
		case p.Accept(token.DOT):
			if !p.acceptName() {
				return nil, p.unexpected("field name")
			}
			expr = &ast.Selector{
				Span:    ast.Join(expr.Source(), p.src.Token.Span),
				Target:  expr,
				Key:     p.TokenText(),
				KeySpan: p.src.Token.Span,
			}
		case p.Accept(token.PAREN_L):
			args, err := p.parseSequence(token.PAREN_R)
			if err != nil {
				return nil, err
			}
			expr = &ast.Apply{
				Span:   ast.Join(expr.Source(), p.src.Token.Span),
				Lambda: expr,
				Args:   args,
			}
		default:
			return expr, nil
		}
	}
}

// acceptName accepts an identifier or a keyword used as a field name.
func (p *Parser) acceptName() bool {
	if p.Accept(token.IDENT) {
		return true
	}
	if _, ok := token.Keywords[p.src.Peek().Text]; ok {
		p.ReadToken()
		return true
	}
	return false
}

// parseSequence parses comma separated expressions up to and including the
// closing delimiter.  A trailing comma is permitted.
func (p *Parser) parseSequence(closing token.Type) ([]ast.Expr, error) {
	exprs := []ast.Expr{}
	for !p.Accept(closing) {
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
		if p.Accept(closing) {
			break
		}
		if !p.Accept(token.COMMA) {
			return nil, p.unexpected(fmt.Sprintf("',' or '%v'", closing))
		}
	}
	return exprs, nil
}

// ParsePrimary parses a literal, a variable, a parenthesized expression, a
// list or an object.
func (p *Parser) ParsePrimary() (ast.Expr, error) {
	switch p.PeekType() {
	case token.NULL:
		p.ReadToken()
		return &ast.Null{Span: p.src.Token.Span}, nil
	case token.TRUE, token.FALSE:
		p.ReadToken()
		return &ast.Bool{Span: p.src.Token.Span, Value: p.TokenType() == token.TRUE}, nil
	case token.INT:
		return p.ParseLiteralInt()
	case token.FLOAT:
		return p.ParseLiteralFloat()
	case token.STRING:
		return p.ParseLiteralString()
	case token.IDENT:
		p.ReadToken()
		return &ast.Variable{Span: p.src.Token.Span, Name: p.TokenText()}, nil
	case token.PAREN_L:
		p.ReadToken()
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if !p.Accept(token.PAREN_R) {
			return nil, p.unexpected("')'")
		}
		return expr, nil
	case token.BRACKET_L:
		return p.ParseList()
	case token.BRACE_L:
		return p.ParseObject()
	default:
		return nil, p.unexpected("expression")
	}
}

func (p *Parser) ParseLiteralInt() (ast.Expr, error) {
	if !p.Accept(token.INT) {
		return nil, p.unexpected("integer")
	}
	text := strings.ReplaceAll(p.TokenText(), "_", "")
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorf("integer literal overflows int64: %v", p.TokenText())
	}
	return &ast.Int{Span: p.src.Token.Span, Value: x}, nil
}

func (p *Parser) ParseLiteralFloat() (ast.Expr, error) {
	if !p.Accept(token.FLOAT) {
		return nil, p.unexpected("float")
	}
	text := strings.ReplaceAll(p.TokenText(), "_", "")
	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid floating point literal: %v", p.TokenText())
	}
	return &ast.Float{Span: p.src.Token.Span, Value: x}, nil
}

func (p *Parser) ParseLiteralString() (ast.Expr, error) {
	if !p.Accept(token.STRING) {
		return nil, p.unexpected("string")
	}
	s, err := p.unquote()
	if err != nil {
		return nil, err
	}
	return &ast.String{Span: p.src.Token.Span, Value: s}, nil
}

// unquote decodes the current string token using JSON escape rules.
func (p *Parser) unquote() (string, error) {
	var s string
	err := json.Unmarshal([]byte(p.TokenText()), &s)
	if err != nil {
		return "", p.errorf("invalid string literal %s", p.TokenText())
	}
	return s, nil
}

func (p *Parser) ParseList() (ast.Expr, error) {
	if !p.Accept(token.BRACKET_L) {
		return nil, p.unexpected("'['")
	}
	start := p.src.Token.Span
	elems, err := p.parseSequence(token.BRACKET_R)
	if err != nil {
		return nil, err
	}
	return &ast.List{
		Span:  ast.Join(start, p.src.Token.Span),
		Elems: elems,
	}, nil
}

func (p *Parser) ParseObject() (ast.Expr, error) {
	if !p.Accept(token.BRACE_L) {
		return nil, p.unexpected("'{'")
	}
	start := p.src.Token.Span
	obj := &ast.Object{Entries: []*ast.Entry{}}
	for !p.Accept(token.BRACE_R) {
		key, err := p.ParseKey()
		if err != nil {
			return nil, err
		}
		if !p.Accept(token.COLON) {
			return nil, p.unexpected("':'")
		}
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		obj.Entries = append(obj.Entries, &ast.Entry{Key: *key, Value: val})
		if p.Accept(token.BRACE_R) {
			break
		}
		if !p.Accept(token.COMMA) {
			return nil, p.unexpected("',' or '}'")
		}
	}
	obj.Span = ast.Join(start, p.src.Token.Span)
	return obj, nil
}

// ParseKey parses an object key: an identifier, a string literal or a
// computed key, `[expr]`.
func (p *Parser) ParseKey() (*ast.Key, error) {
	switch {
	case p.Accept(token.STRING):
		s, err := p.unquote()
		if err != nil {
			return nil, err
		}
		return &ast.Key{Span: p.src.Token.Span, Name: s}, nil
	case p.Accept(token.BRACKET_L):
		start := p.src.Token.Span
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if !p.Accept(token.BRACKET_R) {
			return nil, p.unexpected("']'")
		}
		return &ast.Key{Span: ast.Join(start, p.src.Token.Span), Expr: expr}, nil
	case p.acceptName():
		return &ast.Key{Span: p.src.Token.Span, Name: p.TokenText()}, nil
	default:
		return nil, p.unexpected("object key")
	}
}

func (p *Parser) ReadToken() *token.Token {
	p.src.Scan()
	return p.src.Token
}

func (p *Parser) TokenText() string {
	return p.src.Token.Text
}

func (p *Parser) TokenType() token.Type {
	return p.src.Token.Type
}

func (p *Parser) Location() *token.Location {
	return p.src.Token.Source
}

func (p *Parser) PeekType() token.Type {
	return p.src.Peek().Type
}

func (p *Parser) Accept(typ ...token.Type) bool {
	return p.src.AcceptType(typ...)
}

// unexpected returns an error describing the next token, which did not match
// what the parser expected.
func (p *Parser) unexpected(expected string) error {
	tok := p.src.Peek()
	switch tok.Type {
	case token.ERROR, token.INVALID:
		return &Error{
			Span:       tok.Span,
			Source:     tok.Source,
			Message:    tok.Text,
			Incomplete: tok.Text == "unexpected EOF",
		}
	case token.EOF:
		return &Error{
			Span:       tok.Span,
			Source:     tok.Source,
			Message:    fmt.Sprintf("unexpected end of input, expected %s", expected),
			Incomplete: true,
		}
	}
	return &Error{
		Span:    tok.Span,
		Source:  tok.Source,
		Message: fmt.Sprintf("unexpected token %q, expected %s", tok.Text, expected),
	}
}

// errorf returns an error located at the current token.
func (p *Parser) errorf(format string, v ...interface{}) error {
	tok := p.src.Token
	return &Error{
		Span:    tok.Span,
		Source:  tok.Source,
		Message: fmt.Sprintf(format, v...),
	}
}
