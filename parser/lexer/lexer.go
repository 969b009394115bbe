// Copyright © 2018 The ELPS authors

package lexer

import (
	"fmt"
	"io"
	"unicode"

	"github.com/luthersystems/jml/parser/token"
)

type Lexer struct {
	scanner *token.Scanner
}

func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// ReadToken returns the next token in the input.  At the end of input
// ReadToken returns an EOF token.  Lexical errors are reported as ERROR
// tokens whose Text is the error message.
func (lex *Lexer) ReadToken() *token.Token {
	lex.skipWhitespace()
	if !lex.scanner.Accept(func(c rune) bool { return true }) {
		if lex.scanner.EOF() {
			return lex.emit(token.EOF, "")
		}
		return lex.emitError(lex.scanner.Err())
	}
	switch c := lex.scanner.Rune(); c {
	case '(':
		return lex.emitText(token.PAREN_L)
	case ')':
		return lex.emitText(token.PAREN_R)
	case '[':
		return lex.emitText(token.BRACKET_L)
	case ']':
		return lex.emitText(token.BRACKET_R)
	case '{':
		return lex.emitText(token.BRACE_L)
	case '}':
		return lex.emitText(token.BRACE_R)
	case ',':
		return lex.emitText(token.COMMA)
	case ':':
		return lex.emitText(token.COLON)
	case ';':
		return lex.emitText(token.SEMICOLON)
	case '.':
		return lex.emitText(token.DOT)
	case '\\':
		return lex.emitText(token.BACKSLASH)
	case '*':
		return lex.emitText(token.STAR)
	case '%':
		return lex.emitText(token.PERCENT)
	case '^':
		return lex.emitText(token.CARET)
	case '#':
		return lex.readComment()
	case '/':
		if lex.scanner.AcceptRune('/') {
			return lex.readComment()
		}
		return lex.emitText(token.SLASH)
	case '+':
		if lex.scanner.AcceptRune('+') {
			return lex.emitText(token.CONCAT)
		}
		return lex.emitText(token.PLUS)
	case '-':
		if lex.scanner.AcceptString("--") {
			return lex.emitText(token.SEPARATOR)
		}
		return lex.emitText(token.MINUS)
	case '=':
		if lex.scanner.AcceptRune('=') {
			return lex.emitText(token.EQ)
		}
		return lex.emitText(token.ASSIGN)
	case '!':
		if lex.scanner.AcceptRune('=') {
			return lex.emitText(token.NE)
		}
		return lex.emitText(token.BANG)
	case '<':
		if lex.scanner.AcceptRune('=') {
			return lex.emitText(token.LE)
		}
		return lex.emitText(token.LT)
	case '>':
		if lex.scanner.AcceptRune('=') {
			return lex.emitText(token.GE)
		}
		return lex.emitText(token.GT)
	case '&':
		if lex.scanner.AcceptRune('&') {
			return lex.emitText(token.AND)
		}
		return lex.errorf("unexpected character %q, expected '&&'", c)
	case '|':
		if lex.scanner.AcceptRune('|') {
			return lex.emitText(token.OR)
		}
		return lex.errorf("unexpected character %q, expected '||'", c)
	case '"':
		return lex.readString()
	default:
		if isDigit(c) {
			return lex.readNumber()
		}
		if isWordStart(c) {
			return lex.readWord()
		}
		return lex.errorf("unexpected text starting with %q", c)
	}
}

func (lex *Lexer) emit(typ token.Type, text string) *token.Token {
	tok := &token.Token{
		Type:   typ,
		Text:   text,
		Source: lex.scanner.LocStart(),
		Span:   lex.scanner.Span(),
	}
	lex.scanner.Ignore()
	return tok
}

func (lex *Lexer) emitText(typ token.Type) *token.Token {
	return lex.scanner.EmitToken(typ)
}

func (lex *Lexer) emitError(err error) *token.Token {
	if err == nil || err == io.EOF {
		return lex.emit(token.ERROR, "unexpected EOF")
	}
	return lex.emit(token.ERROR, err.Error())
}

func (lex *Lexer) errorf(format string, v ...interface{}) *token.Token {
	return lex.emitError(fmt.Errorf(format, v...))
}

func (lex *Lexer) readComment() *token.Token {
	lex.scanner.AcceptSeq(func(c rune) bool { return c != '\n' })
	return lex.emitText(token.COMMENT)
}

// readString scans a string literal.  Escape sequences are validated by the
// parser.
func (lex *Lexer) readString() *token.Token {
	for {
		if lex.scanner.AcceptRune('"') {
			return lex.emitText(token.STRING)
		}
		if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
			if lex.scanner.EOF() || lex.peekRune() == '\n' {
				return lex.errorf("unterminated string literal")
			}
			return lex.emitError(lex.scanner.Err())
		}
		if lex.scanner.Rune() == '\\' {
			if !lex.scanner.Accept(func(c rune) bool { return c != '\n' }) {
				return lex.errorf("unterminated string literal")
			}
		}
	}
}

func (lex *Lexer) readWord() *token.Token {
	lex.scanner.AcceptSeq(isWord)
	if typ, ok := token.Keywords[lex.scanner.Text()]; ok {
		return lex.emitText(typ)
	}
	return lex.emitText(token.IDENT)
}

func (lex *Lexer) readNumber() *token.Token {
	// the first digit is already scanned
	lex.acceptDigits()
	switch {
	case lex.peekRune() == '.':
		// A dot not followed by a digit is a selector or lambda dot.
		if !isDigit(lex.peekRune2()) {
			return lex.emitText(token.INT)
		}
		lex.scanner.AcceptRune('.')
		lex.acceptDigits()
		if lex.scanner.AcceptAny("eE") {
			return lex.readFloatExponent()
		}
		return lex.emitText(token.FLOAT)
	case lex.scanner.AcceptAny("eE"):
		return lex.readFloatExponent()
	default:
		return lex.emitText(token.INT)
	}
	// the returned string may not actually be a usable number (overflow), but
	// we can find that out at parse time -- not scan time.
}

func (lex *Lexer) readFloatExponent() *token.Token {
	lex.scanner.AcceptAny("+-") // optional sign
	if lex.scanner.AcceptSeqDigit() == 0 {
		return lex.errorf("invalid floating point literal starting: %v", lex.scanner.Text())
	}
	return lex.emitText(token.FLOAT)
}

func (lex *Lexer) acceptDigits() int {
	return lex.scanner.AcceptSeq(func(c rune) bool { return isDigit(c) || c == '_' })
}

func (lex *Lexer) skipWhitespace() {
	if lex.scanner.AcceptSeqSpace() > 0 {
		lex.scanner.Ignore()
	}
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

// peekRune2 returns the rune following the next rune without scanning
// either.
func (lex *Lexer) peekRune2() rune {
	return lex.scanner.PeekN(2)
}

func isWordStart(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func isWord(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_'
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
