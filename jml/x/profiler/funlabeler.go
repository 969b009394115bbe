package profiler

import (
	"fmt"
	"regexp"

	"github.com/luthersystems/jml/jml"
)

// FunLabeler provides an alternative name for a function label in the trace.
// Returning the empty string keeps the default label.
type FunLabeler func(frame jml.CallFrame) string

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// WithLabels labels spans for the named functions using labels.
func WithLabels(labels map[string]string) Option {
	return WithFunLabeler(func(frame jml.CallFrame) string {
		return labels[frame.Name]
	})
}

// WithLocationLabeler labels anonymous lambdas with the location of their
// application, e.g. "lambda@main.jml:3:7".  It has no effect unless the
// profiler also has WithSource.
func WithLocationLabeler() Option {
	return func(p *profiler) {
		p.funLabeler = func(frame jml.CallFrame) string {
			if frame.Name != "" {
				return ""
			}
			loc := p.sourceLoc(frame)
			if loc == nil {
				return ""
			}
			return fmt.Sprintf("lambda@%s:%d:%d", loc.File, loc.Line, loc.Col)
		}
	}
}

var (
	sanitizeRegExp   = regexp.MustCompile(`[\s_]+`)
	validLabelRegExp = regexp.MustCompile(`[[:graph:]]*`)
)

func sanitizeLabel(userLabel string) string {
	if userLabel == "" {
		return ""
	}

	// Replace spaces with underscores
	userLabel = sanitizeRegExp.ReplaceAllString(userLabel, "_")

	// Find the first valid label match
	matches := validLabelRegExp.FindStringSubmatch(userLabel)
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
