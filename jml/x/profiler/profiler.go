// Package profiler provides jml.Profiler implementations that annotate lambda
// applications for tracing systems and profiling tools.
package profiler

import (
	"fmt"

	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser/token"
)

// profiler is a minimal jml.Profiler
type profiler struct {
	runtime    *jml.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
	file       string
	lines      *token.LineIndex
}

var _ jml.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

// WithSource lets the profiler translate application spans into file, line
// and column locations.  The src must be the text the program was parsed
// from.
func WithSource(file string, src []byte) Option {
	return func(p *profiler) {
		p.file = file
		p.lines = token.NewLineIndex(src)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(frame jml.CallFrame) func() {
	return func() {}
}

// defaultFunName is the bound name of the applied function or "lambda" for
// anonymous functions.
func defaultFunName(frame jml.CallFrame) string {
	if frame.Name == "" {
		return "lambda"
	}
	return frame.Name
}

// prettyFunName returns a pretty name and original name for a frame. If there
// is no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(frame jml.CallFrame) (string, string) {
	origLabel := defaultFunName(frame)
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = sanitizeLabel(p.funLabeler(frame))
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(frame jml.CallFrame) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(frame)
}

// sourceLoc returns the location of the application or nil when the profiler
// was not given the program source.
func (p *profiler) sourceLoc(frame jml.CallFrame) *token.Location {
	if p.lines == nil {
		return nil
	}
	return p.lines.Location(p.file, frame.Source.Offset)
}

func funNamespace(frame jml.CallFrame) string {
	if frame.Native {
		return "builtin"
	}
	return "jml"
}
