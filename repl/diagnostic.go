// Copyright © 2024 The ELPS authors

package repl

import (
	"github.com/luthersystems/jml/diagnostic"
)

// renderError renders a parse or evaluation error against the input that
// produced it.
func (s *session) renderError(src string, err error) {
	prog := &diagnostic.Program{
		File:  SourceName,
		Src:   []byte(src),
		Names: s.env.Names(),
	}
	d := diagnostic.FromError(prog, err)
	r := &diagnostic.Renderer{
		Color:   diagnostic.ColorAuto,
		Sources: map[string][]byte{SourceName: prog.Src},
	}
	if s.noColors {
		r.Color = diagnostic.ColorNever
	}
	_ = r.Render(s.out, d)
}
