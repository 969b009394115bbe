// Copyright © 2024 The ELPS authors

package rdparser

import (
	"errors"
	"fmt"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/parser/token"
)

// Error is a syntax error.
type Error struct {
	Span    ast.Span
	Source  *token.Location
	Message string
	// Incomplete is true when the error was caused by reaching the end of
	// input, so that more input could make the program valid.
	Incomplete bool
}

func (e *Error) Error() string {
	if e.Source == nil {
		return e.Message
	}
	return fmt.Sprintf("%v: %s", e.Source, e.Message)
}

// Code returns the diagnostic code of all syntax errors.
func (e *Error) Code() string {
	return "parse_error"
}

// IsIncomplete returns true if err is a syntax error caused by input ending
// in the middle of an expression.
func IsIncomplete(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Incomplete
}
