// Copyright © 2018 The ELPS authors

package jml_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEnv(t testing.TB, opts ...jml.Config) *jml.Env {
	opts = append([]jml.Config{jml.WithReader(parser.NewReader())}, opts...)
	env, err := jml.NewEnv(opts...)
	require.NoError(t, err)
	return env
}

func eval(t testing.TB, src string, opts ...jml.Config) (*jml.Value, error) {
	return newEnv(t, opts...).LoadString("test", src)
}

func mustEval(t testing.TB, src string, opts ...jml.Config) *jml.Value {
	v, err := eval(t, src, opts...)
	require.NoError(t, err, "source: %s", src)
	return v
}

func list(items ...*jml.Value) *jml.Value {
	return jml.List(items)
}

func object(kv ...interface{}) *jml.Value {
	obj := jml.NewObject()
	for i := 0; i < len(kv); i += 2 {
		obj.Set(kv[i].(string), kv[i+1].(*jml.Value))
	}
	return jml.ObjectValue(obj)
}

func runtimeErr(t testing.TB, err error) *jml.RuntimeError {
	var rerr *jml.RuntimeError
	require.True(t, errors.As(err, &rerr), "expected runtime error: %v", err)
	return rerr
}

func typeErr(t testing.TB, err error) *jml.TypeError {
	var terr *jml.TypeError
	require.True(t, errors.As(err, &terr), "expected type error: %v", err)
	return terr
}

func TestEval(t *testing.T) {
	for i, test := range []struct {
		src    string
		result *jml.Value
	}{
		{`null`, jml.Null()},
		{`true`, jml.Bool(true)},
		{`42`, jml.Int(42)},
		{`1_000`, jml.Int(1000)},
		{`2.5`, jml.Float(2.5)},
		{`"hi\n"`, jml.String("hi\n")},
		{`[1, "a", [null]]`, list(jml.Int(1), jml.String("a"), list(jml.Null()))},
		{`{a: 1, "b c": 2}`, object("a", jml.Int(1), "b c", jml.Int(2))},
		{`{[1 + 1]: "two", ["k" ++ "ey"]: 3, [0.5]: 4}`, object("2", jml.String("two"), "key", jml.Int(3), "0.5", jml.Int(4))},
		{`{a: 1, b: 2, a: 3}`, object("a", jml.Int(3), "b", jml.Int(2))},
		{`[10, 20, 30][1]`, jml.Int(20)},
		{`[10, 20, 30][3]`, jml.Null()},
		{`[10, 20, 30][-1]`, jml.Null()},
		{`"héllo"[1]`, jml.String("é")},
		{`"abc"[5]`, jml.Null()},
		{`{a: {b: 7}}.a.b`, jml.Int(7)},
		{`{a: 1}.missing`, jml.Null()},
		{`{if: 1}.if`, jml.Int(1)},
		{`if 1 < 2 then "Yes" else "No"`, jml.String("Yes")},
		{`if false then 1 else if true then 2 else 3`, jml.Int(2)},
		{`(\x y. x * y)(6, 7)`, jml.Int(42)},
		{`(\. 5)()`, jml.Int(5)},
		{"x = 2\ny = x * 10\n---\ny + x", jml.Int(22)},
		{"y = x + 1; x = 1\n---\ny", jml.Int(2)},
		{"// leading comment\n# another\n1 + 1 // trailing", jml.Int(2)},
	} {
		v, err := eval(t, test.src)
		if assert.NoError(t, err, "test %d: %s", i, test.src) {
			assert.True(t, test.result.Equal(v), "test %d: %s: expected %v got %v", i, test.src, test.result, v)
		}
	}
}

func TestEval_untakenBranch(t *testing.T) {
	v := mustEval(t, `if 1 < 2 then "Yes" else undefined_name`)
	assert.Equal(t, "Yes", v.Str)
	v = mustEval(t, `if 1 > 2 then undefined_name else "No"`)
	assert.Equal(t, "No", v.Str)
}

func TestEval_listIndexing(t *testing.T) {
	env := newEnv(t)
	items := []*jml.Value{jml.Int(5), jml.Int(6), jml.Int(7)}
	env.BindValue("xs", jml.List(items))
	for i := 0; i < 6; i++ {
		v, err := env.LoadString("test", fmt.Sprintf("xs[%d]", i))
		require.NoError(t, err)
		if i < len(items) {
			assert.True(t, items[i].Equal(v), "index %d", i)
		} else {
			assert.Equal(t, jml.VNull, v.Kind, "index %d", i)
		}
	}
}

func TestEval_typeErrors(t *testing.T) {
	for i, test := range []struct {
		src      string
		kind     jml.TypeErrorKind
		span     ast.Span
		code     string
		contains string
	}{
		{`[1][true]`, jml.MismatchedTypes{Expected: []jml.Type{jml.TInt}, Found: jml.TBool}, ast.Span{Offset: 4, Length: 4}, "type_error::mismatched_types", "expected [Int], found Bool"},
		{`{a: 1}[0]`, jml.MismatchedTypes{Expected: []jml.Type{jml.TList, jml.TString}, Found: jml.TObject}, ast.Span{Offset: 0, Length: 6}, "type_error::mismatched_types", ""},
		{`[1].a`, jml.MismatchedTypes{Expected: []jml.Type{jml.TList, jml.TString}, Found: jml.TList}, ast.Span{Offset: 0, Length: 3}, "type_error::mismatched_types", ""},
		{`{[true]: 1}`, jml.MismatchedTypes{Expected: []jml.Type{jml.TString}, Found: jml.TBool}, ast.Span{Offset: 1, Length: 6}, "type_error::mismatched_types", ""},
		{`if 1 then 2 else 3`, jml.MismatchedTypes{Expected: []jml.Type{jml.TBool}, Found: jml.TInt}, ast.Span{Offset: 3, Length: 1}, "type_error::mismatched_types", ""},
		{`1 + true`, jml.InvalidBinaryOperator{Operator: "+", Left: jml.TInt, Right: jml.TBool}, ast.Span{Offset: 0, Length: 8}, "type_error::invalid_binary_operator", "'+'"},
		{`[1] < [2]`, jml.NotOrderedType{Found: jml.TList}, ast.Span{Offset: 0, Length: 9}, "type_error::not_ordered", "List"},
		{`"a" < 1`, jml.InvalidBinaryOperator{Operator: "<", Left: jml.TString, Right: jml.TInt}, ast.Span{Offset: 0, Length: 7}, "", ""},
		{`1 && true`, jml.InvalidBinaryOperator{Operator: "&&", Left: jml.TInt, Right: jml.TBool}, ast.Span{Offset: 0, Length: 9}, "", ""},
		{`-"x"`, jml.InvalidUnaryOperator{Operator: "-", Right: jml.TString}, ast.Span{Offset: 0, Length: 4}, "type_error::invalid_unary_operator", ""},
		{`!1`, jml.InvalidUnaryOperator{Operator: "!", Right: jml.TInt}, ast.Span{Offset: 0, Length: 2}, "", ""},
		{`(\x. x)(1, 2)`, jml.ArgumentCountMismatch{ExpectedCount: 1, ActualCount: 2}, ast.Span{Offset: 1, Length: 12}, "type_error::argument_count_mismatch", "Expected 1 arguments, but got 2"},
		{`5(1)`, jml.MismatchedTypes{Expected: []jml.Type{jml.LambdaType(1)}, Found: jml.TInt}, ast.Span{Offset: 0, Length: 4}, "", ""},
		{`[1] ++ "a"`, jml.InvalidBinaryOperator{Operator: "++", Left: jml.TList, Right: jml.TString}, ast.Span{Offset: 0, Length: 10}, "", ""},
	} {
		_, err := eval(t, test.src)
		require.Error(t, err, "test %d: %s", i, test.src)
		terr := typeErr(t, err)
		assert.Equal(t, test.kind, terr.Kind, "test %d: %s", i, test.src)
		assert.Equal(t, test.span, terr.Span, "test %d: %s", i, test.src)
		if test.code != "" {
			assert.Equal(t, test.code, terr.Code(), "test %d", i)
		}
		if test.contains != "" {
			assert.Contains(t, terr.Error(), test.contains, "test %d", i)
		}
	}
}

func TestEval_runtimeErrors(t *testing.T) {
	for i, test := range []struct {
		src  string
		kind jml.RuntimeErrorKind
		span ast.Span
	}{
		{`1 + undefined`, jml.UndefinedVariable{Name: "undefined"}, ast.Span{Offset: 4, Length: 9}},
		{`5 / 0`, jml.DivisionByZero{}, ast.Span{Offset: 0, Length: 5}},
		{`5.0 / 0.0`, jml.DivisionByZero{}, ast.Span{Offset: 0, Length: 9}},
		{`5 % 0`, jml.DivisionByZero{}, ast.Span{Offset: 0, Length: 5}},
		{`9223372036854775807 + 1`, jml.Overflow{}, ast.Span{Offset: 0, Length: 23}},
		{`2 ^ 64`, jml.Overflow{}, ast.Span{Offset: 0, Length: 6}},
		{`2 ^ -1`, jml.GenericError{Msg: "negative integer exponent"}, ast.Span{Offset: 0, Length: 6}},
		{`[1, x, undefined_2]`, jml.UndefinedVariable{Name: "x"}, ast.Span{Offset: 4, Length: 1}},
	} {
		_, err := eval(t, test.src)
		require.Error(t, err, "test %d: %s", i, test.src)
		rerr := runtimeErr(t, err)
		assert.Equal(t, test.kind, rerr.Kind, "test %d: %s", i, test.src)
		assert.Equal(t, test.span, rerr.Span, "test %d: %s", i, test.src)
	}
}

func TestEval_errorHelp(t *testing.T) {
	_, err := eval(t, `1 / 0`)
	var jerr jml.Error
	require.True(t, errors.As(err, &jerr))
	assert.Equal(t, "eval::division_by_zero", jerr.Code())
	assert.NotEmpty(t, jerr.Help())

	_, err = eval(t, `nope`)
	require.True(t, errors.As(err, &jerr))
	assert.Equal(t, "eval::undefined_variable", jerr.Code())
	assert.Contains(t, jerr.Help(), "'nope'")
}

func TestEval_argumentsNotEvaluatedOnMismatch(t *testing.T) {
	var stderr bytes.Buffer
	_, err := eval(t, `(\x. x)(log("a", 1), log("b", 2))`, jml.WithStderr(&stderr))
	typeErr(t, err)
	assert.Empty(t, stderr.String())
}

func TestLexicalClosures(t *testing.T) {
	src := "make = \\x. \\y. x + y\n---\nmake(1)(2)"
	v := mustEval(t, src)
	assert.True(t, jml.Int(3).Equal(v))

	src = "compose = \\f g. \\x. f(g(x))\ninc = \\x. x + 1\ndouble = \\x. x * 2\n---\ncompose(inc, double)(5)"
	v = mustEval(t, src)
	assert.True(t, jml.Int(11).Equal(v))

	// Top-level bindings do not see the parameters of their caller.
	src = "f = \\x. g\ng = x\n---\nf(1)"
	_, err := eval(t, src)
	rerr := runtimeErr(t, err)
	assert.Equal(t, jml.UndefinedVariable{Name: "x"}, rerr.Kind)
}

func TestFlatScoping(t *testing.T) {
	src := "make = \\x. \\y. x + y\n---\nmake(1)(2)"
	_, err := eval(t, src, jml.WithFlatScoping())
	rerr := runtimeErr(t, err)
	assert.Equal(t, jml.UndefinedVariable{Name: "x"}, rerr.Kind)

	// The active frame is visible to top-level bindings evaluated within it.
	src = "f = \\x. g\ng = x\n---\nf(1)"
	v, err := eval(t, src, jml.WithFlatScoping())
	require.NoError(t, err)
	assert.True(t, jml.Int(1).Equal(v))
}

func TestLazyBindingsNotMemoized(t *testing.T) {
	var stderr bytes.Buffer
	src := "x = log(\"x\", 1)\n---\n[x, x, x]"
	v := mustEval(t, src, jml.WithStderr(&stderr))
	assert.True(t, list(jml.Int(1), jml.Int(1), jml.Int(1)).Equal(v))
	assert.Equal(t, "\"x\" : 1\n\"x\" : 1\n\"x\" : 1\n", stderr.String())
}

func TestLambdaEquality(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want bool
	}{
		{"f = \\x. x\n---\nf == f", true},
		{"f = \\x. x\n---\n[f] == [f]", true},
		{"f = \\x. x\n---\nf != f", false},
		{`(\x. x) == (\y. y)`, true},
		{`(\x. x) == (\x y. x)`, false},
		{`map == (\a b. a)`, true},
	} {
		v := mustEval(t, tc.src)
		assert.True(t, jml.Bool(tc.want).Equal(v), "%s: got %v", tc.src, v)
	}
}

func TestUnusedBindingNotEvaluated(t *testing.T) {
	v := mustEval(t, "broken = 1 / 0\n---\n3")
	assert.True(t, jml.Int(3).Equal(v))
}

func TestRecursion(t *testing.T) {
	src := "fact = \\n. if n <= 1 then 1 else n * fact(n - 1)\n---\nfact(20)"
	v := mustEval(t, src)
	assert.True(t, jml.Int(2432902008176640000).Equal(v))

	src = "fact = \\n. if n <= 1 then 1 else n * fact(n - 1)\n---\nfact(21)"
	_, err := eval(t, src)
	assert.Equal(t, jml.Overflow{}, runtimeErr(t, err).Kind)
}

func TestMaximumStackHeight(t *testing.T) {
	src := "loop = \\n. loop(n + 1)\n---\nloop(0)"
	_, err := eval(t, src, jml.WithMaximumStackHeight(50))
	rerr := runtimeErr(t, err)
	assert.IsType(t, jml.GenericError{}, rerr.Kind)
	assert.Contains(t, rerr.Kind.Message(), "stack height exceeded")
	require.NotNil(t, rerr.Stack)
	assert.Equal(t, 50, rerr.Stack.Height())
	assert.Equal(t, "loop", rerr.Stack.Top().Name)

	_, err = jml.NewEnv(jml.WithMaximumStackHeight(-1))
	assert.Error(t, err)
}

func TestStackUnwindsOnError(t *testing.T) {
	env := newEnv(t)
	_, err := env.LoadString("test", "f = \\x. x / 0\n---\nf(1)")
	require.Error(t, err)
	assert.Equal(t, 0, env.Runtime.Stack.Height())
	assert.Nil(t, env.Local())

	v, err := env.LoadString("test", "f = \\x. x + 1\n---\nf(1)")
	require.NoError(t, err)
	assert.True(t, jml.Int(2).Equal(v))
}

func TestErrorStackTrace(t *testing.T) {
	_, err := eval(t, "inner = \\x. x / 0\nouter = \\x. inner(x)\n---\nouter(1)")
	rerr := runtimeErr(t, err)
	require.Equal(t, 2, rerr.Stack.Height())
	assert.Equal(t, "outer", rerr.Stack.Frames[0].Name)
	assert.Equal(t, "inner", rerr.Stack.Frames[1].Name)

	var buf bytes.Buffer
	_, werr := jml.WriteTrace(&buf, rerr)
	require.NoError(t, werr)
	assert.Contains(t, buf.String(), "Division by zero")
	assert.Contains(t, buf.String(), "Stack Trace [2 frames -- entrypoint last]")
}

func TestContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eval(t, `(\x. x)(1)`, jml.WithContext(ctx))
	rerr := runtimeErr(t, err)
	assert.Contains(t, rerr.Kind.Message(), "evaluation canceled")

	v, err := eval(t, `1 + 1`, jml.WithContext(ctx))
	require.NoError(t, err)
	assert.True(t, jml.Int(2).Equal(v))
}

func TestNoReader(t *testing.T) {
	env, err := jml.NewEnv()
	require.NoError(t, err)
	_, err = env.LoadString("test", "1")
	assert.ErrorIs(t, err, jml.ErrNoReader)
}

func TestParseErrorPassthrough(t *testing.T) {
	_, err := eval(t, "1 +")
	var perr *parser.Error
	assert.True(t, errors.As(err, &perr), "%v", err)
}

func TestEnvNames(t *testing.T) {
	env := newEnv(t)
	env.BindValue("zeta", jml.Int(1))
	env.BindExpr("alpha", &ast.Int{Value: 2})
	names := env.Names()
	assert.Contains(t, names, "zeta")
	assert.Contains(t, names, "alpha")
	assert.Contains(t, names, "map")
	assert.True(t, names[0] <= names[len(names)-1])

	b, err := env.Lookup("alpha")
	require.NoError(t, err)
	assert.True(t, b.IsLazy())
	_, err = env.Lookup("missing")
	assert.Equal(t, jml.UndefinedVariable{Name: "missing"}, runtimeErr(t, err).Kind)
}

func TestPushPopLocal(t *testing.T) {
	env := newEnv(t)
	env.BindValue("x", jml.Int(1))
	frame := jml.NewFrame(nil)
	frame.Bind("x", jml.Int(2))
	env.PushLocal(frame)
	b, err := env.Lookup("x")
	require.NoError(t, err)
	assert.True(t, jml.Int(2).Equal(b.Value))
	env.PopLocal()
	b, err = env.Lookup("x")
	require.NoError(t, err)
	assert.True(t, jml.Int(1).Equal(b.Value))
	assert.Panics(t, env.PopLocal)
}

func TestNaN(t *testing.T) {
	env := newEnv(t)
	env.BindValue("nan", jml.Float(math.NaN()))
	for _, src := range []string{`nan < 1.0`, `nan > 1.0`, `nan == nan`, `nan <= nan`} {
		v, err := env.LoadString("test", src)
		require.NoError(t, err, src)
		assert.True(t, jml.Bool(false).Equal(v), src)
	}
	v, err := env.LoadString("test", `nan != nan`)
	require.NoError(t, err)
	assert.True(t, jml.Bool(true).Equal(v))
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := eval(t, "double = \\x. x * 2\n---\ndouble(4)", jml.WithLogger(logger))
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "msg=\"program loaded\"")
	assert.Contains(t, out, "msg=apply")
	assert.Contains(t, out, "name=double")
}
