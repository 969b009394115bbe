// Copyright © 2018 The ELPS authors

package parser

import (
	"strings"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser/rdparser"
)

// Error is a syntax error.
type Error = rdparser.Error

// NewReader returns a new jml.Reader
func NewReader() jml.Reader {
	return rdparser.NewReader()
}

// Parse parses the program text src.
func Parse(name, src string) (*ast.Jml, error) {
	return rdparser.NewReader().Read(name, strings.NewReader(src))
}
