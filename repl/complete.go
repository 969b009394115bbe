// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"
	"unicode"

	"github.com/luthersystems/jml/jml"
)

// nameCompleter implements readline.AutoCompleter by enumerating the names
// bound in the REPL environment.
type nameCompleter struct {
	env *jml.Env
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the identifier being typed (backwards from cursor).
	start := pos
	for start > 0 && isIdentRune(line[start-1]) {
		start--
	}
	// A selector names an object key, not a binding.
	if start > 0 && line[start-1] == '.' {
		return nil, 0
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectNames(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Build completions: each entry is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, name := range candidates {
		result = append(result, []rune(name[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func (c *nameCompleter) collectNames(prefix string) []string {
	var result []string
	for _, name := range c.env.Names() {
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
