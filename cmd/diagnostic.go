// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/jml"
)

func (c *cli) colorMode() diagnostic.ColorMode {
	return c.color
}

// renderError renders err against the program text and returns an error
// that tells Execute the failure has been reported.
func (c *cli) renderError(w io.Writer, file string, src []byte, env *jml.Env, err error) error {
	prog := &diagnostic.Program{File: file, Src: src}
	if env != nil {
		prog.Names = env.Names()
	}
	r := &diagnostic.Renderer{
		Color:   c.colorMode(),
		Sources: map[string][]byte{file: src},
	}
	_ = r.Render(w, diagnostic.FromError(prog, err))
	return &reportedError{err: err}
}
