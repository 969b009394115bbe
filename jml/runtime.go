// Copyright © 2018 The ELPS authors

package jml

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/luthersystems/jml/ast"
)

// Reader parses program source text.  A Reader is required to evaluate
// programs from text with Env.Load or Env.LoadString.
type Reader interface {
	Read(name string, r io.Reader) (*ast.Jml, error)
}

// Runtime holds state shared by every evaluation performed in an Env.  It is
// responsible for holding the call stack, configuration and the streams used
// for debugging output.
type Runtime struct {
	// Stderr receives the output of the log builtin.
	Stderr io.Writer
	// Logger receives debug traces of evaluation.
	Logger   *slog.Logger
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	// Context, when non-nil, is checked before each lambda application.
	Context context.Context
	// FlatScoping disables lexical closures.  When set, a lambda body only
	// sees its own parameters and the top-level bindings.
	FlatScoping bool
}

// StandardRuntime returns a new Runtime with Stderr set to os.Stderr and a
// Logger that discards all records.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stderr: os.Stderr,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stack:  &CallStack{},
	}
}

func (r *Runtime) debugEnabled() bool {
	return r.Logger != nil && r.Logger.Enabled(context.Background(), slog.LevelDebug)
}
