package profiler

import (
	"github.com/luthersystems/jml/jml"
)

// SkipFilter returns true for applications that should not be traced.
type SkipFilter func(frame jml.CallFrame) bool

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithBuiltinFilter skips applications of builtin functions.
func WithBuiltinFilter() Option {
	return WithSkipFilter(func(frame jml.CallFrame) bool {
		return frame.Native
	})
}

// WithNameFilter only traces applications of functions bound to one of the
// given names.  Anonymous lambdas are never traced.
func WithNameFilter(names ...string) Option {
	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}
	return WithSkipFilter(func(frame jml.CallFrame) bool {
		return !keep[frame.Name]
	})
}
