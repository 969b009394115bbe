// Copyright © 2024 The ELPS authors

// Package diagnostic renders annotated error reports for JML programs.  A
// report names the error code, underlines the failing expression in the
// program text and lists the lambda call stack and any remediation help.
package diagnostic

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

var severityNames = [...]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityNote:    "note",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// Span is an underlined region of program text.  Line and columns are
// 1-based.  An EndCol of zero underlines to the end of the token at Col.
type Span struct {
	File   string // key of Renderer.Sources, or a path to read
	Line   int
	Col    int
	EndCol int
	Label  string
}

// Diagnostic is one report: a headline, the program text it refers to and
// trailing notes and help.
type Diagnostic struct {
	Severity Severity
	// Code is a stable identifier such as "eval::overflow".  It is shown in
	// brackets after the severity when set.
	Code    string
	Message string
	Spans   []Span
	Notes   []string // "= note:" lines (stack trace frames, etc.)
	Help    string   // "= help:" text, wrapped to the renderer width
}
