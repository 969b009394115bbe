// Copyright © 2024 The ELPS authors

package jml_test

import (
	"testing"

	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jmltest"
)

func TestPrograms(t *testing.T) {
	runner := &jmltest.Runner{}
	runner.RunDir(t, "testdata")
}

func TestSequences(t *testing.T) {
	tests := jmltest.TestSuite{
		{"bindings", jmltest.TestSequence{
			{"x = 2", "", ""},
			{"y = x * 3", "", ""},
			{"[x, y]", "[2, 6]", ""},
			{"x = 10", "", ""},
			{"y", "30", ""},
		}},
		{"log", jmltest.TestSequence{
			{`log("value", {a: [1, 2]})`, `{"a": [1, 2]}`, "\"value\" : {\"a\": [1, 2]}\n"},
			{`map([1, 2], \x. log("x", x))`, `[1, 2]`, "\"x\" : 1\n\"x\" : 2\n"},
		}},
		{"errors", jmltest.TestSequence{
			{"1 / 0", "runtime error at 0..5: Division by zero", ""},
			{"nope", "runtime error at 0..4: Undefined variable during evaluation: nope", ""},
			{"f = \\x. x", "", ""},
			{"f()", "type error at 0..3: Expected 1 arguments, but got 0", ""},
		}},
		{"recursion limit", jmltest.TestSequence{
			{"loop = \\n. loop(n + 1)", "", ""},
			{"loop(0)", "runtime error at 11..22: stack height exceeded maximum: 10001", ""},
		}},
	}
	jmltest.RunTestSuite(t, tests)
}

func BenchmarkFib(b *testing.B) {
	jmltest.RunBenchmark(b, "fib = \\n. if n < 2 then n else fib(n - 1) + fib(n - 2)\n---\nfib(15)")
}

func TestSequencesFlatScoping(t *testing.T) {
	tests := jmltest.TestSuite{
		{"dynamic lookup", jmltest.TestSequence{
			{"f = \\x. g", "", ""},
			{"g = x", "", ""},
			{"f(1)", "1", ""},
		}},
	}
	jmltest.RunTestSuite(t, tests, jml.WithFlatScoping())
}
