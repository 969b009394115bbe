package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/jml/jml"
)

// This profiler type appends tags to pprof output if pprof is enabled.  It
// does not start pprof itself.  Because pprof samples at a fixed 100Hz a
// meaningful profile needs a long running program.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ jml.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that labels the goroutine with the
// name of the function being applied.
func NewPprofAnnotator(runtime *jml.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.runtime != nil {
		p.runtime.Profiler = p
	}
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Labels returns the pprof labels currently applied by p.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	if p.currentContext == nil {
		return labels
	}
	pprof.ForLabels(p.currentContext, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func (p *pprofAnnotator) Start(frame jml.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	// The context is kept on the annotator rather than using pprof.Do so that
	// evaluation does not need to run inside a callback.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(frame)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	// apply the selected labels to the current goroutine (NB this will propagate if the code branches further down...
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
