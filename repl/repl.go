// Copyright © 2018 The ELPS authors

// Package repl implements an interactive read-eval-print loop for JML.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/parser"
	"github.com/luthersystems/jml/parser/rdparser"
)

// SourceName identifies REPL input in error messages.
const SourceName = "<repl>"

type config struct {
	stdin    io.ReadCloser
	stderr   io.WriteCloser
	history  string
	envOpts  []jml.Config
	noColors bool
}

func newConfig(opts ...Option) *config {
	config := &config{
		history: historyPath(),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file used to persist input history.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.history = path
	}
}

// WithEnvConfig passes additional configuration to the environment created
// by RunRepl.
func WithEnvConfig(opts ...jml.Config) Option {
	return func(c *config) {
		c.envOpts = append(c.envOpts, opts...)
	}
}

// WithoutColor disables ANSI colors in error reports.
func WithoutColor() Option {
	return func(c *config) {
		c.noColors = true
	}
}

// RunRepl runs a simple repl in a new environment with the builtin library.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []jml.Config{jml.WithReader(parser.NewReader())}
	if cfg.stderr != nil {
		envOpts = append(envOpts, jml.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envOpts...)
	env, err := jml.NewEnv(envOpts...)
	if err != nil {
		return fmt.Errorf("language initialization failure: %w", err)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as the top-level environment.  Input of
// the form `name = expr` evaluates expr and binds the result to name.  Any
// other input is evaluated and the result is printed.
func RunEnv(env *jml.Env, prompt, cont string, opts ...Option) error {
	p := rdparser.NewInteractive(SourceName)
	p.SetPrompts(prompt, cont)

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.history)

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            p.Prompt(),
		HistoryFile:       cfg.history,
		HistorySearchFold: true,
		AutoComplete:      &nameCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s := &session{
		env:      env,
		out:      env.Runtime.Stderr,
		noColors: cfg.noColors,
	}
	for {
		rl.SetPrompt(p.Prompt())
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			p.Reset()
			continue
		}
		if err != nil {
			// io.EOF ends the session
			return nil
		}
		if !p.IsParsing() && strings.TrimSpace(line) == "" {
			continue
		}
		src := line
		if p.IsParsing() {
			src = string(p.Source()) + "\n" + line
		}
		parsed, err := p.Feed(line)
		if err != nil {
			s.renderError(src, err)
			continue
		}
		if parsed == nil {
			continue
		}
		s.eval(src, parsed)
	}
}

type session struct {
	env      *jml.Env
	out      io.Writer
	noColors bool
}

func (s *session) eval(src string, line *rdparser.Line) {
	if line.Bind != nil {
		v, err := s.env.Eval(line.Bind.Expr)
		if err != nil {
			s.renderError(src, err)
			return
		}
		s.env.BindValue(line.Bind.Identifier, v)
		return
	}
	v, err := s.env.Eval(line.Expr)
	if err != nil {
		s.renderError(src, err)
		return
	}
	fmt.Fprintln(s.out, v) //nolint:errcheck // best-effort REPL output
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jml_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // user history file
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
