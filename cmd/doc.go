// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/jml/docs"
	"github.com/luthersystems/jml/jml"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

const docWidth = 72

func (c *cli) docCommand() *cobra.Command {
	var missing, guide bool
	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for builtin functions",
		Long: `Show documentation for the builtin functions of JML.

Without arguments every builtin is listed with a one line summary.  Given a
name, the signature and full documentation of that builtin are shown.
Builtins added by an embedding program are included.  With --guide the
language guide is shown instead.

Examples:
  jml doc              List all builtins
  jml doc reduce       Show docs for the reduce function
  jml doc --missing    List builtins without documentation
  jml doc --guide      Show the language guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			if guide {
				_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
				return err
			}
			env, err := jml.NewEnv(c.envConfig(io.Discard)...)
			if err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			switch {
			case missing:
				return renderMissingDocs(out, env)
			case len(args) == 0:
				return renderBuiltinList(out, env)
			default:
				return renderBuiltin(out, env, args[0])
			}
		}),
	}
	cmd.Flags().BoolVar(&missing, "missing", false,
		"List builtin functions that have no documentation.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Show the language guide.")
	return cmd
}

// builtins returns the native functions bound in env, sorted by name.
func builtins(env *jml.Env) []*jml.Lambda {
	var funs []*jml.Lambda
	for _, name := range env.Names() {
		b, err := env.Lookup(name)
		if err != nil || b.IsLazy() || b.Value.Kind != jml.VLambda {
			continue
		}
		if fn := b.Value.Fun; fn.IsNative() {
			funs = append(funs, fn)
		}
	}
	return funs
}

func signature(fn *jml.Lambda) string {
	return fn.Name + "(" + strings.Join(fn.Params, ", ") + ")"
}

func renderBuiltinList(w io.Writer, env *jml.Env) error {
	for _, fn := range builtins(env) {
		line := fmt.Sprintf("  %-28s", signature(fn))
		if summary := docSummary(fn.Doc); summary != "" {
			line += "  " + summary
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func renderBuiltin(w io.Writer, env *jml.Env, name string) error {
	for _, fn := range builtins(env) {
		if fn.Name != name {
			continue
		}
		if _, err := fmt.Fprintf(w, "builtin %s\n", signature(fn)); err != nil {
			return err
		}
		if doc := cleanDocstring(fn.Doc); doc != "" {
			_, err := fmt.Fprintln(w, doc)
			return err
		}
		return nil
	}
	return fmt.Errorf("no builtin named %q", name)
}

func renderMissingDocs(w io.Writer, env *jml.Env) error {
	for _, fn := range builtins(env) {
		if strings.TrimSpace(fn.Doc) != "" {
			continue
		}
		if _, err := fmt.Fprintln(w, fn.Name); err != nil {
			return err
		}
	}
	return nil
}

// docParagraphs splits doc on blank lines and joins the words of each
// paragraph with single spaces.
func docParagraphs(doc string) []string {
	var paras []string
	for _, p := range strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n") {
		if words := strings.Fields(p); len(words) > 0 {
			paras = append(paras, strings.Join(words, " "))
		}
	}
	return paras
}

// docSummary returns the first sentence of doc.
func docSummary(doc string) string {
	paras := docParagraphs(doc)
	if len(paras) == 0 {
		return ""
	}
	first := paras[0]
	if i := strings.Index(first, ". "); i >= 0 {
		return first[:i+1]
	}
	return first
}

func cleanDocstring(doc string) string {
	paras := docParagraphs(doc)
	for i := range paras {
		paras[i] = wordwrap.String(paras[i], docWidth)
	}
	return strings.TrimSuffix(indent.String(strings.Join(paras, "\n\n"), 2), "\n")
}
