// Copyright © 2024 The ELPS authors

package libyaml

import (
	"testing"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	v, err := Load([]byte(`
zeta: 1
alpha:
  name: jml
  ratio: 0.5
  tags: [a, b]
  enabled: true
  missing: null
`))
	require.NoError(t, err)
	require.Equal(t, jml.VObject, v.Kind)
	assert.Equal(t, []string{"zeta", "alpha"}, v.Obj.Keys())

	zeta, _ := v.Obj.Get("zeta")
	assert.True(t, jml.Int(1).Equal(zeta))

	alpha, _ := v.Obj.Get("alpha")
	require.Equal(t, jml.VObject, alpha.Kind)
	assert.Equal(t, []string{"name", "ratio", "tags", "enabled", "missing"}, alpha.Obj.Keys())
	name, _ := alpha.Obj.Get("name")
	assert.True(t, jml.String("jml").Equal(name))
	ratio, _ := alpha.Obj.Get("ratio")
	assert.True(t, jml.Float(0.5).Equal(ratio))
	tags, _ := alpha.Obj.Get("tags")
	assert.True(t, jml.List([]*jml.Value{jml.String("a"), jml.String("b")}).Equal(tags))
	enabled, _ := alpha.Obj.Get("enabled")
	assert.True(t, jml.Bool(true).Equal(enabled))
	missing, _ := alpha.Obj.Get("missing")
	assert.Equal(t, jml.VNull, missing.Kind)
}

func TestLoad_scalarKeys(t *testing.T) {
	v, err := Load([]byte("1: one\n2: two\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, v.Obj.Keys())
}

func TestLoad_error(t *testing.T) {
	_, err := Load([]byte("a: [1, 2"))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	obj := jml.NewObject()
	obj.Set("z", jml.Int(-3))
	obj.Set("a", jml.List([]*jml.Value{jml.String("x"), jml.Bool(false), jml.Null()}))
	inner := jml.NewObject()
	inner.Set("k", jml.String("v"))
	obj.Set("m", jml.ObjectValue(inner))
	v := jml.ObjectValue(obj)

	for _, indent := range []int{0, 2, 4} {
		b, err := Dump(v, indent)
		require.NoError(t, err, "indent %d", indent)
		back, err := Load(b)
		require.NoError(t, err, "indent %d: %s", indent, b)
		assert.True(t, v.Equal(back), "indent %d: %v != %v", indent, v, back)
		assert.Equal(t, []string{"z", "a", "m"}, back.Obj.Keys())
	}
}

func TestDump_notSerializable(t *testing.T) {
	fn := jml.NativeFun("id", []string{"x"}, func(env *jml.Env, _ ast.Span, args []*jml.Value) (*jml.Value, error) {
		return args[0], nil
	})
	_, err := Dump(jml.List([]*jml.Value{fn}), 2)
	assert.ErrorIs(t, err, ErrNotSerializable)
}
