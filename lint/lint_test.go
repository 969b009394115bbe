// Copyright © 2024 The ELPS authors

package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/luthersystems/jml/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on the given source and returns diagnostics.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.jml")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on the given source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.jml")
	require.NoError(t, err)
	return diags
}

// assertNoDiags checks that there are no diagnostics.
func assertNoDiags(t *testing.T, diags []Diagnostic) {
	t.Helper()
	if len(diags) > 0 {
		var msgs []string
		for _, d := range diags {
			msgs = append(msgs, d.String())
		}
		t.Errorf("expected no diagnostics, got %d: %v", len(diags), msgs)
	}
}

// assertDiagOnLine checks that a diagnostic exists on the given line with the given substring.
func assertDiagOnLine(t *testing.T, diags []Diagnostic, line int, substr string) {
	t.Helper()
	for _, d := range diags {
		if d.Pos.Line == line && strings.Contains(d.Message, substr) {
			return
		}
	}
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, fmt.Sprintf("line %d: %s", d.Pos.Line, d.Message))
	}
	t.Errorf("expected diagnostic on line %d containing %q, got: %v", line, substr, msgs)
}

func TestUndefinedName(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedName, "ax = 1\n---\nax + x")
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined name 'x'", diags[0].Message)
	assert.Equal(t, Position{File: "test.jml", Line: 3, Col: 6}, diags[0].Pos)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, []string{"did you mean 'ax'?"}, diags[0].Notes)
}

func TestUndefinedName_LambdaScope(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedName, "f = \\x. \\y. x + y\n---\nf(1)(2)")
	assertNoDiags(t, diags)
}

func TestUndefinedName_BindingCannotSeeCallerParams(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedName, "g = y\nf = \\y. g\n---\nf(1)")
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "undefined name 'y'")
}

func TestUndefinedName_Builtins(t *testing.T) {
	diags := lintCheck(t, AnalyzerUndefinedName, "reduce(map([1, 2], \\x. x), 0, \\x acc. x + acc)")
	assertNoDiags(t, diags)
}

func TestUndefinedName_Predeclared(t *testing.T) {
	l := &Linter{Analyzers: []*Analyzer{AnalyzerUndefinedName}, Predeclared: []string{"orders"}}
	diags, err := l.LintFile([]byte("map(orders, \\o. o.id)"), "test.jml")
	require.NoError(t, err)
	assertNoDiags(t, diags)
}

func TestUnusedBinding(t *testing.T) {
	src := "a = 1\nb = 2\nc = \\n. if n == 0 then 0 else c(n - 1)\n---\na"
	diags := lintCheck(t, AnalyzerUnusedBinding, src)
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 2, "binding 'b' is never used")
	assertDiagOnLine(t, diags, 3, "binding 'c' is never used")
}

func TestUnusedBinding_ShadowedByParam(t *testing.T) {
	diags := lintCheck(t, AnalyzerUnusedBinding, "x = 1\n---\n(\\x. x)(2)")
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "binding 'x' is never used")
}

func TestDuplicateBinding(t *testing.T) {
	diags := lintCheck(t, AnalyzerDuplicateBinding, "a = 1\na = 2\n---\na")
	require.Len(t, diags, 1)
	assert.Equal(t, "'a' is already bound", diags[0].Message)
	assert.Equal(t, 2, diags[0].Pos.Line)
	assert.Equal(t, []string{"previous binding at test.jml:1:1"}, diags[0].Notes)
}

func TestDuplicateKey(t *testing.T) {
	diags := lintCheck(t, AnalyzerDuplicateKey, `{a: 1, "a": 2, [k]: 3, [k]: 4}`)
	require.Len(t, diags, 1)
	assert.Equal(t, `duplicate key "a" in object`, diags[0].Message)
	assert.Equal(t, 8, diags[0].Pos.Col)
}

func TestDuplicateParam(t *testing.T) {
	diags := lintCheck(t, AnalyzerDuplicateParam, "f = \\x y x. x\n---\nf(1, 2, 3)")
	require.Len(t, diags, 1)
	assertDiagOnLine(t, diags, 1, "parameter 'x' is repeated")
}

func TestSelfReference(t *testing.T) {
	src := "a = b + 1\nb = a\nf = \\n. f(n)\nc = c\n---\na"
	diags := lintCheck(t, AnalyzerSelfReference, src)
	require.Len(t, diags, 3)
	assertDiagOnLine(t, diags, 1, "binding 'a' depends on itself: a -> b -> a")
	assertDiagOnLine(t, diags, 2, "binding 'b' depends on itself: b -> a -> b")
	assertDiagOnLine(t, diags, 4, "binding 'c' depends on itself: c -> c")
}

func TestShadowedBuiltin(t *testing.T) {
	diags := lintCheck(t, AnalyzerShadowedBuiltin, "map = 1\n---\n(\\filter. filter)(map)")
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 1, "binding 'map' shadows a builtin")
	assertDiagOnLine(t, diags, 3, "parameter 'filter' shadows a builtin")
	assert.Equal(t, SeverityInfo, diags[0].Severity)
}

func TestConstantCondition(t *testing.T) {
	diags := lintCheck(t, AnalyzerConstantCondition, "if true then 1 else 2")
	require.Len(t, diags, 1)
	assert.Equal(t, "condition is always true", diags[0].Message)
	assert.Equal(t, 4, diags[0].Pos.Col)
}

func TestDefaultAnalyzers_Sorted(t *testing.T) {
	diags := lintSource(t, "x = y\n---\n{a: 1, a: 2}")
	require.Len(t, diags, 3)
	assert.Equal(t, "unused-binding", diags[0].Analyzer)
	assert.Equal(t, "undefined-name", diags[1].Analyzer)
	assert.Equal(t, "duplicate-key", diags[2].Analyzer)
	assert.Equal(t, "test.jml:3:8", diags[2].Pos.String())
}

func TestNolint(t *testing.T) {
	src := "a = 1 // nolint:unused-binding\nb = 2 # nolint\nc = 3\nd = 4 // nolint:duplicate-key\n---\n1"
	diags := lintSource(t, src)
	require.Len(t, diags, 2)
	assertDiagOnLine(t, diags, 3, "binding 'c' is never used")
	assertDiagOnLine(t, diags, 4, "binding 'd' is never used")
}

func TestLintFile_SyntaxError(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	_, err := l.LintFile([]byte("a +"), "test.jml")
	require.Error(t, err)
	var perr *parser.Error
	assert.True(t, errors.As(err, &perr))
}

func TestAnalyzerError(t *testing.T) {
	failing := &Analyzer{
		Name: "failing",
		Run:  func(*Pass) error { return errors.New("boom") },
	}
	l := &Linter{Analyzers: []*Analyzer{failing}}
	_, err := l.LintFile([]byte("1"), "test.jml")
	assert.EqualError(t, err, "test.jml: analyzer failing: boom")
}

func TestFormat(t *testing.T) {
	diags := lintSource(t, "a = 1\n---\n2")
	require.Len(t, diags, 1)

	var text bytes.Buffer
	FormatText(&text, diags)
	assert.Equal(t, "test.jml:1:1: binding 'a' is never used (unused-binding)\n", text.String())

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, diags))
	var decoded []Diagnostic
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, SeverityWarning, decoded[0].Severity)
	assert.Equal(t, "unused-binding", decoded[0].Analyzer)
	assert.Contains(t, buf.String(), `"severity": "warning"`)
}

func TestSeverityJSON(t *testing.T) {
	b, err := json.Marshal(severityUnset)
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	assert.Error(t, json.Unmarshal([]byte(`"fatal"`), &s))
	require.NoError(t, json.Unmarshal([]byte(`"info"`), &s))
	assert.Equal(t, SeverityInfo, s)
}

func TestDiagnosticString_Notes(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "f.jml", Line: 2},
		Message:  "msg",
		Analyzer: "check",
		Notes:    []string{"hint"},
	}
	assert.Equal(t, "f.jml:2: msg (check)\n  = note: hint", d.String())
}

func TestAnalyzerNames(t *testing.T) {
	names := AnalyzerNames()
	assert.Len(t, names, len(DefaultAnalyzers()))
	assert.IsIncreasing(t, names)
	doc := AnalyzerDoc()
	for _, name := range names {
		assert.Contains(t, doc, "  "+name+"\n")
	}
}
