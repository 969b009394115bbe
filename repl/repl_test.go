package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- RunRepl("jml> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(""),
			WithoutColor())
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup
	require.NoError(t, <-errc)

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".jml_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".jml_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "1 + 1\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Binding",
			input:    "double = \\x. x * 2\ndouble(21)\n",
			expected: []string{"42\n"},
		},
		{
			name:     "Continuation",
			input:    "{\"a\":\n[1,\n2]}\n",
			expected: []string{`{"a": [1, 2]}`},
		},
		{
			name:  "Error",
			input: "total = 1\ntotl\n",
			expected: []string{
				"error[eval::undefined_variable]",
				"--> <repl>:1:1",
				"did you mean 'total'?",
			},
		},
		{
			name:     "Syntax Error",
			input:    "[1, 2]]\n",
			expected: []string{"error[parse_error]"},
		},
		{
			name:     "Recovers After Error",
			input:    "1 / 0\n3 * 3\n",
			expected: []string{"error[eval::division_by_zero]", "9\n"},
		},
		{
			name:     "Log",
			input:    "log(\"x\", 1)\n",
			expected: []string{"\"x\" : 1\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, want := range tc.expected {
				assert.Contains(t, got, want)
			}
		})
	}
}
