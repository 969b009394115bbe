// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/parser/token"
)

// Line is one complete input of an interactive session.  Exactly one of Bind
// and Expr is set.
type Line struct {
	Bind *ast.Bind
	Expr ast.Expr
}

// Interactive parses REPL input.  Text is accumulated across calls to Feed
// until it forms a complete binding or expression.
type Interactive struct {
	name       string
	prompt     string
	promptCont string
	buf        []byte
}

// NewInteractive initializes and returns a new Interactive parser.
func NewInteractive(name string) *Interactive {
	return &Interactive{name: name}
}

// SetPrompts configures the string prompts returned by p.Prompt().  The cont
// string is used to prompt the user when the parser is in the middle of
// parsing an expression at the start of a line.
func (p *Interactive) SetPrompts(prompt, cont string) {
	p.prompt = prompt
	p.promptCont = cont
}

// Prompt returns a simple prompt that can be used by a REPL.
func (p *Interactive) Prompt() string {
	if p.IsParsing() {
		return p.promptCont
	}
	return p.prompt
}

// IsParsing returns true if p holds the beginning of an incomplete input.
func (p *Interactive) IsParsing() bool {
	return p != nil && len(p.buf) > 0
}

// Source returns the text accumulated for the current input.
func (p *Interactive) Source() []byte {
	return p.buf
}

// Reset discards any accumulated input.
func (p *Interactive) Reset() {
	p.buf = nil
}

// Feed appends a line of text to the accumulated input and attempts to parse
// it.  When the input is incomplete Feed returns a nil Line and a nil error.
// Any other result resets the accumulated input, so the caller must copy
// Source before calling Feed if it needs the text to render errors.
func (p *Interactive) Feed(line string) (*Line, error) {
	if len(p.buf) > 0 {
		p.buf = append(p.buf, '\n')
	}
	p.buf = append(p.buf, line...)
	parsed, err := ParseLine(p.name, p.buf)
	if IsIncomplete(err) {
		return nil, nil
	}
	p.buf = nil
	return parsed, err
}

// ParseLine parses src as either a binding, `name = expr`, or an expression.
func ParseLine(name string, src []byte) (*Line, error) {
	parser := New(token.NewScanner(name, src))
	if parser.src.IsEOF() {
		return nil, parser.unexpected("expression")
	}
	line := &Line{}
	var err error
	if parser.atBinding() {
		line.Bind, err = parser.ParseBinding()
	} else {
		line.Expr, err = parser.ParseExpression()
	}
	if err != nil {
		return nil, err
	}
	parser.Accept(token.SEMICOLON)
	if !parser.src.IsEOF() {
		return nil, parser.unexpected("end of input")
	}
	return line, nil
}
