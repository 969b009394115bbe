// Copyright © 2018 The ELPS authors

package lexer

import (
	"reflect"
	"testing"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/parser/token"
	"github.com/stretchr/testify/assert"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		input  string
		tokens []*token.Token
	}{
		{``, []*token.Token{
			testToken(token.EOF, ""),
		}},
		{`abc _x1 null true false if then else`, []*token.Token{
			testToken(token.IDENT, "abc"),
			testToken(token.IDENT, "_x1"),
			testToken(token.NULL, "null"),
			testToken(token.TRUE, "true"),
			testToken(token.FALSE, "false"),
			testToken(token.IF, "if"),
			testToken(token.THEN, "then"),
			testToken(token.ELSE, "else"),
			testToken(token.EOF, ""),
		}},
		{`()[]{},:;.\`, []*token.Token{
			testToken(token.PAREN_L, "("),
			testToken(token.PAREN_R, ")"),
			testToken(token.BRACKET_L, "["),
			testToken(token.BRACKET_R, "]"),
			testToken(token.BRACE_L, "{"),
			testToken(token.BRACE_R, "}"),
			testToken(token.COMMA, ","),
			testToken(token.COLON, ":"),
			testToken(token.SEMICOLON, ";"),
			testToken(token.DOT, "."),
			testToken(token.BACKSLASH, `\`),
			testToken(token.EOF, ""),
		}},
		{`+ ++ - --- * / % ^ == != < <= > >= && || ! =`, []*token.Token{
			testToken(token.PLUS, "+"),
			testToken(token.CONCAT, "++"),
			testToken(token.MINUS, "-"),
			testToken(token.SEPARATOR, "---"),
			testToken(token.STAR, "*"),
			testToken(token.SLASH, "/"),
			testToken(token.PERCENT, "%"),
			testToken(token.CARET, "^"),
			testToken(token.EQ, "=="),
			testToken(token.NE, "!="),
			testToken(token.LT, "<"),
			testToken(token.LE, "<="),
			testToken(token.GT, ">"),
			testToken(token.GE, ">="),
			testToken(token.AND, "&&"),
			testToken(token.OR, "||"),
			testToken(token.BANG, "!"),
			testToken(token.ASSIGN, "="),
			testToken(token.EOF, ""),
		}},
		{`10 -5 0.1 1_000 12e12 12e-12 12.02E+5 x.0`, []*token.Token{
			testToken(token.INT, "10"),
			testToken(token.MINUS, "-"),
			testToken(token.INT, "5"),
			testToken(token.FLOAT, "0.1"),
			testToken(token.INT, "1_000"),
			testToken(token.FLOAT, "12e12"),
			testToken(token.FLOAT, "12e-12"),
			testToken(token.FLOAT, "12.02E+5"),
			testToken(token.IDENT, "x"),
			testToken(token.DOT, "."),
			testToken(token.INT, "0"),
			testToken(token.EOF, ""),
		}},
		{`xs[0].a`, []*token.Token{
			testToken(token.IDENT, "xs"),
			testToken(token.BRACKET_L, "["),
			testToken(token.INT, "0"),
			testToken(token.BRACKET_R, "]"),
			testToken(token.DOT, "."),
			testToken(token.IDENT, "a"),
			testToken(token.EOF, ""),
		}},
		{`1.a`, []*token.Token{
			testToken(token.INT, "1"),
			testToken(token.DOT, "."),
			testToken(token.IDENT, "a"),
			testToken(token.EOF, ""),
		}},
		{`"abc" "" "a\"b" "\n"`, []*token.Token{
			testToken(token.STRING, `"abc"`),
			testToken(token.STRING, `""`),
			testToken(token.STRING, `"a\"b"`),
			testToken(token.STRING, `"\n"`),
			testToken(token.EOF, ""),
		}},
		{"1 // line comment\n# hash comment\n2", []*token.Token{
			testToken(token.INT, "1"),
			testToken(token.COMMENT, "// line comment"),
			testToken(token.COMMENT, "# hash comment"),
			testToken(token.INT, "2"),
			testToken(token.EOF, ""),
		}},
		{`"abc`, []*token.Token{
			testToken(token.ERROR, "unterminated string literal"),
		}},
		{`a & b`, []*token.Token{
			testToken(token.IDENT, "a"),
			testToken(token.ERROR, `unexpected character '&', expected '&&'`),
		}},
		{`@`, []*token.Token{
			testToken(token.ERROR, `unexpected text starting with '@'`),
		}},
	}
testloop:
	for i, test := range tests {
		lex := New(token.NewScanner("", []byte(test.input)))
		var tokens []*token.Token
		numToken := 0
		for {
			tok := lex.ReadToken()
			tok.Source = nil
			tok.Span = ast.Span{}
			tokens = append(tokens, tok)
			if tok.Type == token.EOF || tok.Type == token.ERROR {
				break
			}
			numToken++
			if numToken > 100000 {
				t.Errorf("test %d: apparent infinite scanning loop", i)
				continue testloop
			}
		}
		if !reflect.DeepEqual(tokens, test.tokens) {
			t.Errorf("test %d: unexpected tokens for input", i)
			t.Logf("source:\n\t%s", test.input)
			t.Logf("tokens:")
			for _, tok := range tokens {
				t.Logf("\t%v %q", tok.Type, tok.Text)
			}
		}
	}
}

func TestLexerSpans(t *testing.T) {
	lex := New(token.NewScanner("test", []byte("a +\n  \"é\"")))
	a := lex.ReadToken()
	plus := lex.ReadToken()
	str := lex.ReadToken()
	assert.Equal(t, ast.Span{Offset: 0, Length: 1}, a.Span)
	assert.Equal(t, ast.Span{Offset: 2, Length: 1}, plus.Span)
	assert.Equal(t, ast.Span{Offset: 6, Length: 4}, str.Span)
	assert.Equal(t, "test:2:3", str.Source.String())
}

func testToken(typ token.Type, text string) *token.Token {
	return &token.Token{
		Type: typ,
		Text: text,
	}
}
