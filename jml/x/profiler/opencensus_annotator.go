package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/jml/jml"
	"go.opencensus.io/trace"
)

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
	contexts       []context.Context
}

var _ jml.Profiler = &ocAnnotator{}

// NewOpenCensusAnnotator returns a profiler that creates an OpenCensus span
// for every lambda application.
func NewOpenCensusAnnotator(runtime *jml.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler, nesting spans under ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	if p.runtime != nil {
		p.runtime.Profiler = p
	}
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(frame jml.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(frame)
	p.contexts = append(p.contexts, p.currentContext)
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, funNamespace(frame)+":"+prettyLabel)
	return func() {
		p.end(frame)
	}
}

func (p *ocAnnotator) end(frame jml.CallFrame) {
	attrs := []trace.Attribute{
		trace.Int64Attribute("offset", int64(frame.Source.Offset)),
	}
	if loc := p.sourceLoc(frame); loc != nil {
		attrs = append(attrs,
			trace.StringAttribute("file", loc.File),
			trace.Int64Attribute("line", int64(loc.Line)),
		)
	}
	p.currentSpan.Annotate(attrs, "source")
	p.currentSpan.End()
	// And pop the current context back
	n := len(p.contexts) - 1
	p.currentContext = p.contexts[n]
	p.contexts[n] = nil
	p.contexts = p.contexts[:n]
	p.currentSpan = trace.FromContext(p.currentContext)
}
