// Copyright © 2018 The ELPS authors

package token

import (
	"fmt"

	"github.com/luthersystems/jml/ast"
)

// Source is an abstract stream of tokens which allows one token lookahead.
type Source interface {
	// Token returns the current token.  Token returns nil if Scan has not been
	// called.
	Token() *Token
	// Peek returns the next token in the stream.  At the end of the stream
	// Peek should return a value to indicate the lack of a token (EOF).
	Peek() *Token
	// Scan advances the token stream if possible.  If there are no tokens
	// remaining Scan returns false.
	Scan() bool
}

type Token struct {
	Type   Type
	Text   string
	Source *Location
	// Span is the byte range of the token in the source text.
	Span ast.Span
}

type Type uint

// Type constants used by the jml lexer and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	// Atoms & literals
	IDENT
	INT
	FLOAT
	STRING

	COMMENT

	// Keywords
	NULL
	TRUE
	FALSE
	IF
	THEN
	ELSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	CARET
	CONCAT
	EQ
	NE
	LT
	GT
	LE
	GE
	AND
	OR
	BANG
	ASSIGN
	BACKSLASH
	DOT

	// Delimiters
	COMMA
	COLON
	SEMICOLON
	SEPARATOR
	PAREN_L
	PAREN_R
	BRACKET_L
	BRACKET_R
	BRACE_L
	BRACE_R

	numTokenTypes
)

var typeStrings = [numTokenTypes]string{
	INVALID:   "invalid",
	ERROR:     "error",
	EOF:       "EOF",
	IDENT:     "identifier",
	INT:       "int",
	FLOAT:     "float",
	STRING:    "string",
	COMMENT:   "comment",
	NULL:      "null",
	TRUE:      "true",
	FALSE:     "false",
	IF:        "if",
	THEN:      "then",
	ELSE:      "else",
	PLUS:      "+",
	MINUS:     "-",
	STAR:      "*",
	SLASH:     "/",
	PERCENT:   "%",
	CARET:     "^",
	CONCAT:    "++",
	EQ:        "==",
	NE:        "!=",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	AND:       "&&",
	OR:        "||",
	BANG:      "!",
	ASSIGN:    "=",
	BACKSLASH: `\`,
	DOT:       ".",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	SEPARATOR: "---",
	PAREN_L:   "(",
	PAREN_R:   ")",
	BRACKET_L: "[",
	BRACKET_R: "]",
	BRACE_L:   "{",
	BRACE_R:   "}",
}

func (typ Type) String() string {
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

// Keywords maps reserved words to their token type.
var Keywords = map[string]Type{
	"null":  NULL,
	"true":  TRUE,
	"false": FALSE,
	"if":    IF,
	"then":  THEN,
	"else":  ELSE,
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset
	Line int    // line number (starting at 1 when tracked)
	Col  int    // byte column (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%s: %s", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
