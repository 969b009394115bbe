// Copyright © 2024 The ELPS authors

package diagnostic_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalError(t *testing.T, src string) (*diagnostic.Program, error) {
	t.Helper()
	env, err := jml.NewEnv(jml.WithReader(parser.NewReader()))
	require.NoError(t, err)
	_, err = env.LoadString("test.jml", src)
	require.Error(t, err)
	return &diagnostic.Program{File: "test.jml", Src: []byte(src), Names: env.Names()}, err
}

func TestFromError_undefined(t *testing.T) {
	prog, err := evalError(t, "total = 1\n---\ntotl + 1")
	d := diagnostic.FromError(prog, err)
	assert.Equal(t, diagnostic.SeverityError, d.Severity)
	assert.Equal(t, "eval::undefined_variable", d.Code)
	assert.Equal(t, "runtime error: Undefined variable during evaluation: totl", d.Message)
	assert.Equal(t, "Check if the variable 'totl' is defined before using it.", d.Help)
	assert.Equal(t, []diagnostic.Span{{File: "test.jml", Line: 3, Col: 1, EndCol: 4}}, d.Spans)
	assert.Equal(t, []string{"did you mean 'total'?"}, d.Notes)
}

func TestFromError_noSuggestion(t *testing.T) {
	prog, err := evalError(t, "zzz")
	d := diagnostic.FromError(prog, err)
	assert.Empty(t, d.Notes)
}

func TestFromError_stack(t *testing.T) {
	prog, err := evalError(t, "f = \\x. x / 0\n---\nmap([1], f)")
	d := diagnostic.FromError(prog, err)
	assert.Equal(t, "eval::division_by_zero", d.Code)
	assert.Equal(t, "runtime error: Division by zero", d.Message)
	assert.Equal(t, []diagnostic.Span{{File: "test.jml", Line: 1, Col: 9, EndCol: 13}}, d.Spans)
	assert.Equal(t, []string{
		"in lambda at test.jml:3:1",
		"in builtin map at test.jml:3:1",
	}, d.Notes)
}

func TestFromError_typeError(t *testing.T) {
	prog, err := evalError(t, "if 1 then 2 else 3")
	d := diagnostic.FromError(prog, err)
	assert.Equal(t, "type_error::mismatched_types", d.Code)
	assert.Equal(t, "type error: Mismatched types: expected [Bool], found Int", d.Message)
	assert.Equal(t, []diagnostic.Span{{File: "test.jml", Line: 1, Col: 4, EndCol: 4}}, d.Spans)
	assert.Empty(t, d.Help)
}

func TestFromError_parse(t *testing.T) {
	src := "x = 1\n---\n[1, 2"
	_, err := parser.Parse("test.jml", src)
	require.Error(t, err)
	d := diagnostic.FromError(&diagnostic.Program{File: "test.jml", Src: []byte(src)}, err)
	assert.Equal(t, "parse_error", d.Code)
	assert.NotEmpty(t, d.Message)
	require.Len(t, d.Spans, 1)
	assert.Equal(t, 3, d.Spans[0].Line)
}

func TestFromError_other(t *testing.T) {
	d := diagnostic.FromError(&diagnostic.Program{}, errors.New("boom"))
	assert.Equal(t, diagnostic.Diagnostic{Severity: diagnostic.SeverityError, Message: "boom"}, d)
}

func TestFromError_render(t *testing.T) {
	src := "total = 1\n---\ntotl + 1"
	prog, err := evalError(t, src)
	r := &diagnostic.Renderer{
		Color:   diagnostic.ColorNever,
		Sources: map[string][]byte{"test.jml": []byte(src)},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, diagnostic.FromError(prog, err)))
	assert.Equal(t, `error[eval::undefined_variable]: runtime error: Undefined variable during evaluation: totl
  --> test.jml:3:1
   |
 3 |  totl + 1
   |  ^^^^
   |
   = note: did you mean 'total'?
   = help: Check if the variable 'totl' is defined before using it.
`, buf.String())
}
