// Copyright © 2018 The ELPS authors

package rdparser_test

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/jml/jmltest"
	"github.com/luthersystems/jml/parser/rdparser"
)

const fixtureDir = "../../jml/testdata"

func benchmarkSource(n int) []byte {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "f%d = \\x. {id: x, sq: x * x, ok: x %% 2 == 0, tags: [\"a\", \"b\"]}\n", i)
	}
	b.WriteString("---\n[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "f%d(%d).sq", i, i)
	}
	b.WriteString("]\n")
	return []byte(b.String())
}

func BenchmarkParser(b *testing.B) {
	for _, n := range []int{10, 1000} {
		buf := benchmarkSource(n)
		b.Run(fmt.Sprint(n), func(b *testing.B) {
			b.SetBytes(int64(len(buf)))
			for i := 0; i < b.N; i++ {
				_, err := rdparser.NewReader().Read("test", bytes.NewReader(buf))
				if err != nil {
					b.Fatalf("Parse failure: %v", err)
				}
			}
		})
	}
}

func BenchmarkParserFixtures(b *testing.B) {
	files, err := filepath.Glob(filepath.Join(fixtureDir, "*.jml"))
	if err != nil {
		b.Fatalf("Failed to list test fixtures: %v", err)
	}
	for _, path := range files {
		b.Run(filepath.Base(path), jmltest.BenchmarkParse(path, rdparser.NewReader))
	}
}
