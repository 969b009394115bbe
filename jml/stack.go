// Copyright © 2018 The ELPS authors

package jml

import (
	"fmt"
	"io"

	"github.com/luthersystems/jml/ast"
)

// CallStack records the lambda applications in progress.  It is used to
// attach a trace to errors and to bound recursion depth.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one lambda application in the CallStack.
type CallFrame struct {
	// Source is the span of the application expression.
	Source ast.Span
	// Name is the builtin or bound name of the function, when known.
	Name   string
	Native bool
}

func (f *CallFrame) String() string {
	name := f.Name
	if name == "" {
		name = "<lambda>"
	}
	if f.Native {
		name = "builtin " + name
	}
	return fmt.Sprintf("%v: %s", f.Source, name)
}

// Copy creates a copy of the current stack so that it can be attached to an
// error.
func (s *CallStack) Copy() *CallStack {
	if s == nil {
		return nil
	}
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		MaxHeight: s.MaxHeight,
		Frames:    frames,
	}
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push pushes a new frame onto s.  Push fails without modifying s when the
// stack is already at its maximum height.
func (s *CallStack) Push(src ast.Span, name string, native bool) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return &StackOverflowError{Height: len(s.Frames) + 1}
	}
	s.Frames = append(s.Frames, CallFrame{
		Source: src,
		Name:   name,
		Native: native,
	})
	return nil
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fstr := s.Frames[i].String()
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, fstr)
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// StackOverflowError is returned by CallStack.Push when the maximum height
// would be exceeded.
type StackOverflowError struct {
	Height int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack height exceeded maximum: %v", e.Height)
}
