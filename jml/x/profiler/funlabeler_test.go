package profiler

import (
	"testing"

	"github.com/luthersystems/jml/ast"
	"github.com/luthersystems/jml/jml"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected string
	}{
		{
			name:     "empty",
			label:    "",
			expected: "",
		},
		{
			name:     "normal",
			label:    "Add-It",
			expected: "Add-It",
		},
		{
			name:     "spaces",
			label:    "Add  It",
			expected: "Add_It",
		},
		{
			name:     "underscores",
			label:    "add__it now",
			expected: "add_it_now",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := sanitizeLabel(tc.label)
			assert.Equal(t, tc.expected, actual, "sanitizeLabel(%s)", tc.label)
		})
	}
}

func TestPrettyFunName(t *testing.T) {
	src := "f = \\x. x\n---\n  (\\y. y)(f(1))"
	p := &profiler{}
	p.applyConfigs(WithSource("main.jml", []byte(src)), WithLocationLabeler())

	pretty, orig := p.prettyFunName(jml.CallFrame{Name: "f"})
	assert.Equal(t, "f", pretty)
	assert.Equal(t, "f", orig)

	pretty, orig = p.prettyFunName(jml.CallFrame{Source: ast.Span{Offset: 17, Length: 14}})
	assert.Equal(t, "lambda@main.jml:3:4", pretty)
	assert.Equal(t, "lambda", orig)
}

func TestSkipTrace(t *testing.T) {
	p := &profiler{}
	assert.True(t, p.skipTrace(jml.CallFrame{Name: "f"}), "disabled")
	assert.NoError(t, p.Enable())
	assert.False(t, p.skipTrace(jml.CallFrame{Name: "f"}))

	WithBuiltinFilter()(p)
	assert.True(t, p.skipTrace(jml.CallFrame{Name: "map", Native: true}))
	assert.False(t, p.skipTrace(jml.CallFrame{Name: "f"}))

	WithNameFilter("g")(p)
	assert.True(t, p.skipTrace(jml.CallFrame{Name: "f"}))
	assert.False(t, p.skipTrace(jml.CallFrame{Name: "g"}))
}
