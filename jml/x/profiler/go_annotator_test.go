package profiler_test

import (
	"testing"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jml/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPprofAnnotator(t *testing.T) {
	env := newEnv(t)
	ppa := profiler.NewPprofAnnotator(env.Runtime, nil)
	require.NoError(t, ppa.Enable())
	assert.Error(t, ppa.Enable(), "enabling twice")

	end := ppa.Start(jml.CallFrame{Source: ast.Span{Offset: 0, Length: 3}, Name: "outer"})
	assert.Equal(t, map[string]string{"function": "outer"}, ppa.Labels())
	endInner := ppa.Start(jml.CallFrame{Name: ""})
	assert.Equal(t, map[string]string{"function": "lambda"}, ppa.Labels())
	endInner()
	assert.Equal(t, map[string]string{"function": "outer"}, ppa.Labels())
	end()
	assert.Empty(t, ppa.Labels())

	_, err := env.LoadString("test.jml", testJML)
	require.NoError(t, err)
	assert.NoError(t, ppa.Complete())
}
