// Copyright © 2018 The ELPS authors

package jml

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) error

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from nesting more than n lambda applications.  Exceeding the
// limit is reported as a runtime error instead of exhausting the host stack.
// A value of zero means no limit.
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) error {
		if n < 0 {
			return errors.New("maximum stack height cannot be negative")
		}
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStderr returns a Config that makes environments write log builtin
// output to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithLogger returns a Config that makes environments write evaluation traces
// to logger.
func WithLogger(logger *slog.Logger) Config {
	return func(env *Env) error {
		env.Runtime.Logger = logger
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  The profiler
// is enabled as part of the configuration.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}

// WithContext returns a Config that makes lambda application fail once ctx is
// done.
func WithContext(ctx context.Context) Config {
	return func(env *Env) error {
		env.Runtime.Context = ctx
		return nil
	}
}

// WithFlatScoping returns a Config that disables lexical closures.  Lambda
// bodies then resolve names against their own parameters and the top-level
// bindings only, and lazy top-level bindings are evaluated in the frame that
// references them.
func WithFlatScoping() Config {
	return func(env *Env) error {
		env.Runtime.FlatScoping = true
		return nil
	}
}
