// Copyright © 2024 The ELPS authors

// Package lint provides static analysis for jml programs.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives a parsed program and reports diagnostics.  The framework
// handles parsing, running analyzers, suppression comments and output
// formatting.  Embedders can define custom checks alongside the built-in set.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/parser"
	"github.com/luthersystems/jml/parser/lexer"
	"github.com/luthersystems/jml/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota // unexported zero sentinel for default detection
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.
// An unset severity (zero value) is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for this check (e.g. "unused-binding").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this analyzer.
	Severity Severity

	// Run executes the check. It should call pass.Report() for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	// Analyzer is the currently running check.
	Analyzer *Analyzer

	// Filename is the source file being analyzed.
	Filename string

	// Program is the parsed program.
	Program *ast.Jml

	// Predeclared holds the names bound before the program runs: builtins
	// and any names the caller binds, such as command line variables.
	Predeclared map[string]bool

	lines       *token.LineIndex
	diagnostics []Diagnostic
}

// Report records a diagnostic finding.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf is a convenience for reporting a diagnostic at a source span.
func (p *Pass) Reportf(span ast.Span, format string, args ...interface{}) {
	p.Report(p.Diagnostic(span, format, args...))
}

// Position returns the location of the start of span.
func (p *Pass) Position(span ast.Span) Position {
	line, col := p.lines.Position(span.Offset)
	return Position{File: p.Filename, Line: line, Col: col}
}

// Diagnostic returns an unreported diagnostic positioned at span.
func (p *Pass) Diagnostic(span ast.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Pos:     p.Position(span),
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Pos is the source location of the problem.
	Pos Position `json:"pos"`

	// Span is the byte range of the problem in the source text.
	Span ast.Span `json:"-"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Analyzer is the name of the check that found this problem.
	Analyzer string `json:"analyzer"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Notes are optional hint text lines for the user.
	Notes []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

// String returns the position in file:line format.
func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style: file:line: message (analyzer)
// with optional note lines appended.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer

	// Predeclared names are treated as bound in addition to the builtins.
	Predeclared []string
}

// LintFile parses and analyzes a single source file and returns all
// diagnostics sorted by position.  A syntax error is returned as a
// *parser.Error.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	prog, err := parser.Parse(filename, string(source))
	if err != nil {
		return nil, err
	}
	return l.LintProgram(prog, source, filename)
}

// LintProgram analyzes an already parsed program.  The source text is used
// to resolve positions and suppression comments.
func (l *Linter) LintProgram(prog *ast.Jml, source []byte, filename string) ([]Diagnostic, error) {
	predeclared := builtinNames()
	for _, name := range l.Predeclared {
		predeclared[name] = true
	}
	lines := token.NewLineIndex(source)

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer:    analyzer,
			Filename:    filename,
			Program:     prog,
			Predeclared: predeclared,
			lines:       lines,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		all = append(all, pass.diagnostics...)
	}

	all = filterSuppressed(all, nolintDirectives(filename, source))

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Pos.Line != all[j].Pos.Line {
			return all[i].Pos.Line < all[j].Pos.Line
		}
		return all[i].Pos.Col < all[j].Pos.Col
	})
	return all, nil
}

// filterSuppressed removes diagnostics on lines with nolint comments.
func filterSuppressed(diags []Diagnostic, nolintLines map[int]string) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := nolintLines[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		// Empty directive = suppress all
		if directive == "" {
			continue
		}
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// nolintDirectives maps line numbers to the nolint directive of a comment on
// that line: "" suppresses every check, otherwise a comma separated list of
// analyzer names.
func nolintDirectives(filename string, source []byte) map[int]string {
	lines := make(map[int]string)
	lex := lexer.New(token.NewScanner(filename, source))
	for {
		tok := lex.ReadToken()
		if tok.Type == token.EOF || tok.Type == token.ERROR {
			return lines
		}
		if tok.Type == token.COMMENT {
			checkNolintToken(tok, lines)
		}
	}
}

func checkNolintToken(tok *token.Token, lines map[int]string) {
	if tok.Source == nil {
		return
	}
	text := strings.TrimSpace(tok.Text)
	// Strip comment prefix
	text = strings.TrimPrefix(text, "//")
	text = strings.TrimPrefix(text, "#")
	text = strings.TrimSpace(text)

	rest, ok := strings.CutPrefix(text, "nolint")
	if !ok {
		return
	}
	if rest == "" {
		lines[tok.Source.Line] = ""
		return
	}
	if directive, ok := strings.CutPrefix(rest, ":"); ok {
		lines[tok.Source.Line] = directive
	}
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerUndefinedName,
		AnalyzerUnusedBinding,
		AnalyzerDuplicateBinding,
		AnalyzerDuplicateKey,
		AnalyzerDuplicateParam,
		AnalyzerSelfReference,
		AnalyzerShadowedBuiltin,
		AnalyzerConstantCondition,
	}
}
