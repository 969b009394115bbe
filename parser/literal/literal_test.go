// Copyright © 2018 The ELPS authors

package literal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		text    string
		display string
	}{
		{`null`, `null`},
		{`true`, `true`},
		{`false`, `false`},
		{`12`, `12`},
		{`-7`, `-7`},
		{`1_000`, `1000`},
		{`2.5`, `2.5`},
		{`1e3`, `1000`},
		{`"hello world"`, `"hello world"`},
		{`"tab\there"`, "\"tab\there\""},
		{`prod`, `"prod"`},
		{`us-east-1`, `"us-east-1"`},
		{`[]`, `[]`},
		{`[1, "a", [true]]`, `[1, "a", [true]]`},
		{`[1 2 3]`, `[1, 2, 3]`},
		{`{}`, `{}`},
		{`{a: 1, "b c": [null],}`, `{"a": 1, "b c": [null]}`},
		{`  { nested: {x: 1.5} }  `, `{"nested": {"x": 1.5}}`},
	}
	for i, test := range tests {
		v, err := ParseString(test.text)
		if !assert.NoError(t, err, "test %d: %s", i, test.text) {
			continue
		}
		assert.Equal(t, test.display, v.String(), "test %d: %s", i, test.text)
	}
}

func TestParseKinds(t *testing.T) {
	v, err := ParseString(`1e3`)
	require.NoError(t, err)
	assert.Equal(t, "Float", v.Kind.String())

	v, err = ParseString(`1000`)
	require.NoError(t, err)
	assert.Equal(t, "Int", v.Kind.String())
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{
		``,
		`[1, 2`,
		`{a 1}`,
		`99999999999999999999`,
		`1 2`,
		`"\q"`,
	} {
		_, err := ParseString(text)
		assert.Error(t, err, "%q", text)
	}
}
