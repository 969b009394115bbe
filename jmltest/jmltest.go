// Copyright © 2018 The ELPS authors

// Package jmltest provides helpers for testing JML programs from Go tests.
package jmltest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jml/jmllib/libjson"
	"github.com/luthersystems/jml/parser"
	"github.com/luthersystems/jml/parser/rdparser"
)

// MaxStackHeight bounds recursion in test environments so that a runaway
// program fails the test instead of exhausting the goroutine stack.
const MaxStackHeight = 10000

// BenchmarkParse returns a benchmark that parses the file at path with
// readers produced by r.
func BenchmarkParse(path string, r func() jml.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// TestSequence is a sequence of inputs which are evaluated sequentially in a
// single jml.Env.  Each Expr is either a binding, `name = expr`, or an
// expression.
type TestSequence []struct {
	Expr   string // a binding or expression
	Result string // the evaluated result or error message; empty for bindings
	Output string // output of the log builtin
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated environments
// configured with opts.
func RunTestSuite(t *testing.T, tests TestSuite, opts ...jml.Config) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		envOpts := []jml.Config{
			jml.WithMaximumStackHeight(MaxStackHeight),
			jml.WithReader(parser.NewReader()),
			jml.WithStderr(&exprBuf),
		}
		env, err := jml.NewEnv(append(envOpts, opts...)...)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			line, err := rdparser.ParseLine("test", []byte(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			var result string
			if line.Bind != nil {
				env.BindExpr(line.Bind.Identifier, line.Bind.Expr)
			} else {
				v, err := env.Eval(line.Expr)
				if err != nil {
					result = err.Error()
				} else {
					result = v.String()
				}
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected debug output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that evaluates the program source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	prog, err := parser.Parse("benchmark", source)
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := jml.NewEnv(
			jml.WithMaximumStackHeight(MaxStackHeight),
			jml.WithStderr(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		_, err = env.EvalProgram(prog)
		b.StopTimer()
		if err != nil {
			b.Fatal(err)
		}
	}
}

// Runner evaluates program files and compares their results with golden
// files.  For a program file "x.jml" the expected JSON result is read from
// "x.json".  When "x.err" exists instead the program must fail and the
// rendered diagnostic must match its contents.
type Runner struct {
	// Config is applied to the environment of every program.
	Config []jml.Config
	// Indent is the JSON indentation of result golden files.  The default is
	// two spaces.
	Indent string
}

// RunDir runs every program matching dir/*.jml as a subtest.
func (r *Runner) RunDir(t *testing.T, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.jml"))
	if err != nil {
		t.Fatalf("Failed to list test programs: %v", err)
	}
	if len(files) == 0 {
		t.Fatalf("No test programs in %s", dir)
	}
	for _, path := range files {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".jml"), func(t *testing.T) {
			r.RunFile(t, path)
		})
	}
}

// RunFile evaluates the program at path and checks the result against its
// golden file.
func (r *Runner) RunFile(t *testing.T, path string) {
	src, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Fatalf("Unable to read test program: %v", err)
	}
	logger := NewLogger(t)
	defer logger.Flush()
	envOpts := []jml.Config{
		jml.WithMaximumStackHeight(MaxStackHeight),
		jml.WithReader(parser.NewReader()),
		jml.WithStderr(logger),
	}
	env, err := jml.NewEnv(append(envOpts, r.Config...)...)
	if err != nil {
		t.Fatal(err)
	}
	name := filepath.Base(path)
	v, evalErr := env.LoadString(name, string(src))

	base := strings.TrimSuffix(path, filepath.Ext(path))
	expectErr, err := os.ReadFile(base + ".err") //#nosec G304
	switch {
	case err == nil:
		if evalErr == nil {
			t.Fatalf("Expected an error, got %v", v)
		}
		got := r.renderError(name, src, env, evalErr)
		if got != string(expectErr) {
			t.Errorf("Unexpected error report\nexpected:\n%s\ngot:\n%s", expectErr, got)
		}
		return
	case !errors.Is(err, os.ErrNotExist):
		t.Fatal(err)
	}
	if evalErr != nil {
		t.Fatal(r.renderError(name, src, env, evalErr))
	}
	expect, err := os.ReadFile(base + ".json") //#nosec G304
	if err != nil {
		t.Fatalf("Unable to read expected result: %v", err)
	}
	indent := r.Indent
	if indent == "" {
		indent = "  "
	}
	got, err := libjson.Dump(v, indent)
	if err != nil {
		t.Fatalf("Unable to serialize result: %v", err)
	}
	if string(got) != strings.TrimRight(string(expect), "\n") {
		t.Errorf("Unexpected result\nexpected:\n%s\ngot:\n%s", expect, got)
	}
}

func (r *Runner) renderError(name string, src []byte, env *jml.Env, err error) string {
	prog := &diagnostic.Program{File: name, Src: src, Names: env.Names()}
	renderer := &diagnostic.Renderer{
		Color:   diagnostic.ColorNever,
		Sources: map[string][]byte{name: src},
	}
	var buf bytes.Buffer
	_ = renderer.Render(&buf, diagnostic.FromError(prog, err))
	return buf.String()
}
