// Copyright © 2018 The ELPS authors

package rdparser

import (
	"github.com/luthersystems/jml/parser/lexer"
	"github.com/luthersystems/jml/parser/token"
)

// TokenStream is an arbitrary sequence of tokens.  Typically, a TokenStream
// will be a *lexer.Lexer.
type TokenStream interface {
	// ReadToken returns the next token from an input source.  When no more
	// tokens can be generated ReadToken returns a token with type token.EOF.
	ReadToken() *token.Token
}

// TokenGenerator implements TokenStream.  The function will be called any time
// a TokenSource wants a token.
type TokenGenerator func() *token.Token

// ReadToken implements TokenStream.
func (fn TokenGenerator) ReadToken() *token.Token {
	return fn()
}

// TokenSource abstracts a TokenStream by adding "memory" and lookahead.
// Comment tokens are dropped from the stream.
type TokenSource struct {
	lex   TokenStream
	Token *token.Token
	peek  []*token.Token
}

func NewTokenStreamSource(stream TokenStream) *TokenSource {
	return &TokenSource{
		lex: stream,
	}
}

// NewTokenSource initializes and returns a new TokenSource that scans tokens
// from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	return NewTokenStreamSource(lexer.New(scanner))
}

// Peek returns the next token without consuming it.
func (s *TokenSource) Peek() *token.Token {
	return s.PeekAt(0)
}

// PeekAt returns the token i positions past the next token.  PeekAt(0) is
// equivalent to Peek.  Lookahead stops at the first EOF or ERROR token.
func (s *TokenSource) PeekAt(i int) *token.Token {
	for len(s.peek) <= i {
		if n := len(s.peek); n > 0 {
			last := s.peek[n-1]
			if last.Type == token.EOF || last.Type == token.ERROR {
				return last
			}
		}
		tok := s.lex.ReadToken()
		if tok.Type == token.COMMENT {
			continue
		}
		s.peek = append(s.peek, tok)
	}
	return s.peek[i]
}

func (s *TokenSource) Accept(fn func(*token.Token) bool) bool {
	if fn(s.Peek()) {
		s.scan()
		return true
	}
	return false
}

func (s *TokenSource) AcceptType(typ ...token.Type) bool {
	for _, typ := range typ {
		if s.Peek().Type == typ {
			s.scan()
			return true
		}
	}
	return false
}

func (s *TokenSource) Scan() bool {
	if s.IsEOF() {
		s.Token = s.Peek()
		return false
	}
	s.scan()
	return true
}

func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

func (s *TokenSource) scan() {
	s.Token = s.Peek()
	if s.Token.Type == token.EOF || s.Token.Type == token.ERROR {
		// terminal tokens stay in the lookahead buffer
		return
	}
	s.peek = s.peek[1:]
}
