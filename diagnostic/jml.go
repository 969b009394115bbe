// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser/rdparser"
	"github.com/luthersystems/jml/parser/token"
	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the names offered for an undefined variable.
const maxSuggestions = 3

// Program is the text an error is reported against.
type Program struct {
	File string
	Src  []byte
	// Names are the bindings visible when the error occurred.  They are
	// used to suggest alternatives for undefined variables.
	Names []string

	lines *token.LineIndex
}

// FromError converts an error returned by the parser or the evaluator to a
// Diagnostic.  Errors of any other type produce a diagnostic with only a
// message.
func FromError(prog *Program, err error) Diagnostic {
	var (
		perr *rdparser.Error
		jerr jml.Error
	)
	switch {
	case errors.As(err, &perr):
		d := Diagnostic{
			Severity: SeverityError,
			Code:     perr.Code(),
			Message:  perr.Message,
		}
		d.Spans = append(d.Spans, prog.span(perr.Span))
		return d
	case errors.As(err, &jerr):
		return evalDiagnostic(prog, jerr)
	default:
		return Diagnostic{
			Severity: SeverityError,
			Message:  err.Error(),
		}
	}
}

func evalDiagnostic(prog *Program, err jml.Error) Diagnostic {
	d := Diagnostic{
		Severity: SeverityError,
		Code:     err.Code(),
		Help:     err.Help(),
	}
	switch err := err.(type) {
	case *jml.TypeError:
		d.Message = "type error: " + err.Kind.Message()
	case *jml.RuntimeError:
		d.Message = "runtime error: " + err.Kind.Message()
		if undef, ok := err.Kind.(jml.UndefinedVariable); ok {
			if hint := Suggest(undef.Name, prog.Names); hint != "" {
				d.Notes = append(d.Notes, hint)
			}
		}
	default:
		d.Message = err.Error()
	}
	d.Spans = append(d.Spans, prog.span(err.Source()))

	stack := err.CallStack()
	if stack == nil {
		return d
	}
	for i := len(stack.Frames) - 1; i >= 0; i-- {
		frame := &stack.Frames[i]
		name := frame.Name
		switch {
		case name == "":
			name = "lambda"
		case frame.Native:
			name = "builtin " + name
		}
		d.Notes = append(d.Notes, "in "+name+" at "+prog.location(frame.Source.Offset))
	}
	return d
}

// Suggest returns a "did you mean" note naming the entries of names closest
// to name, or "" when none match.
func Suggest(name string, names []string) string {
	var candidates []string
	for _, match := range fuzzy.Find(name, names) {
		if match.Str == name {
			continue
		}
		candidates = append(candidates, "'"+match.Str+"'")
		if len(candidates) == maxSuggestions {
			break
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	return "did you mean " + strings.Join(candidates, " or ") + "?"
}

func (prog *Program) index() *token.LineIndex {
	if prog.lines == nil {
		prog.lines = token.NewLineIndex(prog.Src)
	}
	return prog.lines
}

func (prog *Program) location(offset int) string {
	line, col := prog.index().Position(offset)
	return fmt.Sprintf("%s:%d:%d", prog.File, line, col)
}

// span converts a byte span to a Span.  A span that continues past the end of
// its first line is underlined to the end of that line.
func (prog *Program) span(s ast.Span) Span {
	lines := prog.index()
	line, col := lines.Position(s.Offset)
	endCol := col
	if s.Length > 0 {
		endCol = col + s.Length - 1
	}
	if text := lines.Line(line); endCol > len(text) {
		endCol = len(text)
	}
	return Span{
		File:   prog.File,
		Line:   line,
		Col:    col,
		EndCol: endCol,
	}
}

// Span returns the source annotation for s in prog, underlined and labeled.
func (prog *Program) Span(s ast.Span, label string) Span {
	sp := prog.span(s)
	sp.Label = label
	return sp
}
