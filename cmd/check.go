// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/lint"
	"github.com/spf13/cobra"
)

// errProblems is reported when check finds problems it has already printed.
var errProblems = errors.New("problems found")

type checkOptions struct {
	json     bool
	checks   string
	list     bool
	excludes []string
	defines  []string
}

func (c *cli) checkCommand() *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check [flags] [files...]",
		Short: "Report syntax errors and likely mistakes in JML programs",
		Long: `Parse JML programs and run static analysis checks on them.

Syntax errors are always reported.  Each check is an independent analyzer
that examines the parsed program, similar to "go vet".  With no files, the
program is read from stdin.

To suppress a diagnostic, add a comment on the same line:
  total = sum(xs)  // nolint:unused-binding

To suppress all checks on a line:
  total = sum(xs)  # nolint

Names bound outside the program, such as --variable documents of "jml run",
are declared with --define to keep them from being reported as undefined.

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `Examples:
  jml check report.jml
  jml check ./...
  jml check --define orders report.jml
  jml check --checks=undefined-name,self-reference ./...
  jml check --json --exclude=vendor ./...`,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			return c.check(cmd, args, &opts)
		}),
	}
	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "Output diagnostics as JSON.")
	flags.StringVar(&opts.checks, "checks", "", "Comma-separated list of checks to run (default: all).")
	flags.BoolVar(&opts.list, "list", false, "List available checks and exit.")
	flags.StringArrayVar(&opts.excludes, "exclude", nil, "Glob pattern for files to exclude (may be repeated).")
	flags.StringArrayVarP(&opts.defines, "define", "d", nil, "Treat a name as bound (may be repeated).")
	return cmd
}

func (c *cli) check(cmd *cobra.Command, args []string, opts *checkOptions) error {
	out := cmd.OutOrStdout()
	if opts.list {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(out, name) //nolint:errcheck // best-effort output
		}
		return nil
	}
	analyzers, err := selectAnalyzers(opts.checks)
	if err != nil {
		return err
	}
	l := &lint.Linter{Analyzers: analyzers, Predeclared: opts.defines}

	type source struct {
		name string
		src  []byte
	}
	var sources []source
	if len(args) == 0 {
		src, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		sources = append(sources, source{"<stdin>", src})
	} else {
		files, err := expandArgs(args, opts.excludes)
		if err != nil {
			return err
		}
		for _, path := range files {
			src, err := os.ReadFile(path) //#nosec G304
			if err != nil {
				return err
			}
			sources = append(sources, source{path, src})
		}
	}

	var (
		all      []lint.Diagnostic
		problems bool
	)
	for _, s := range sources {
		c.logger.Debug("checking program", "file", s.name)
		diags, err := l.LintFile(s.src, s.name)
		if err != nil {
			if opts.json {
				return err
			}
			problems = true
			_ = c.renderError(cmd.ErrOrStderr(), s.name, s.src, nil, err)
			continue
		}
		if len(diags) > 0 {
			problems = true
		}
		if opts.json {
			all = append(all, diags...)
			continue
		}
		c.renderLintDiagnostics(cmd.ErrOrStderr(), s.name, s.src, diags)
	}
	if opts.json {
		if all == nil {
			all = []lint.Diagnostic{}
		}
		if err := lint.FormatJSON(out, all); err != nil {
			return err
		}
	}
	if problems {
		return &reportedError{err: errProblems}
	}
	return nil
}

func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}

// renderLintDiagnostics renders diags against the program text.
func (c *cli) renderLintDiagnostics(w io.Writer, file string, src []byte, diags []lint.Diagnostic) {
	prog := &diagnostic.Program{File: file, Src: src}
	r := &diagnostic.Renderer{
		Color:   c.colorMode(),
		Sources: map[string][]byte{file: src},
	}
	for _, d := range diags {
		_ = r.Render(w, diagnostic.Diagnostic{
			Severity: lintSeverity(d.Severity),
			Code:     d.Analyzer,
			Message:  d.Message,
			Spans:    []diagnostic.Span{prog.Span(d.Span, "")},
			Notes:    d.Notes,
		})
	}
}

func lintSeverity(s lint.Severity) diagnostic.Severity {
	switch s {
	case lint.SeverityError:
		return diagnostic.SeverityError
	case lint.SeverityInfo:
		return diagnostic.SeverityNote
	default:
		return diagnostic.SeverityWarning
	}
}
