// Copyright © 2018 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/jml/jml"
	"github.com/luthersystems/jml/jml/jmllib/libjson"
	"github.com/luthersystems/jml/jml/jmllib/libyaml"
	"github.com/luthersystems/jml/parser"
	"github.com/spf13/cobra"
)

// evalOptions are the flags shared by run and eval.
type evalOptions struct {
	output    string
	format    string
	compact   bool
	variables []string
	sets      []string
}

func (opts *evalOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "",
		"Write the result to a file instead of stdout.")
	flags.StringVar(&opts.format, "format", "json",
		`Output format: "json" or "yaml".`)
	flags.BoolVar(&opts.compact, "compact", false,
		"Write the result without indentation.")
	flags.StringArrayVarP(&opts.variables, "variable", "v", nil,
		"Bind a JSON or YAML document to a name, as name=path or name=URL. May be repeated.")
	flags.StringArrayVarP(&opts.sets, "set", "s", nil,
		`Bind a literal value to a name, e.g. --set limit=10 or --set 'tags=["a"]'. May be repeated.`)
}

func (c *cli) runCommand() *cobra.Command {
	var (
		file string
		opts evalOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a JML program file",
		Long: `Evaluate a JML program file and write the result as JSON.

Documents bound with --variable are available to the program under the given
name.  A binding in the program with the same name replaces the document.

Examples:
  jml run --file report.jml
  jml run -f report.jml -v orders=orders.json -v cfg=https://example.com/cfg.yaml
  jml run -f report.jml --set limit=10 --format yaml -o report.yaml
  cat report.jml | jml run -f -`,
		Args: cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			src, err := readProgram(cmd, file)
			if err != nil {
				return err
			}
			name := file
			if name == "-" {
				name = "<stdin>"
			}
			return c.evaluate(cmd, name, src, &opts)
		}),
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `Program file to evaluate ("-" reads stdin).`)
	_ = cmd.MarkFlagRequired("file")
	opts.addFlags(cmd)
	return cmd
}

func readProgram(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	src, err := os.ReadFile(file) //#nosec G304
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return src, nil
}

// evaluate parses and evaluates src and writes the result.  Parse and
// evaluation errors are rendered to the command's stderr.
func (c *cli) evaluate(cmd *cobra.Command, name string, src []byte, opts *evalOptions) error {
	stderr := cmd.ErrOrStderr()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	prog, err := parser.Parse(name, string(src))
	if err != nil {
		return c.renderError(stderr, name, src, nil, err)
	}

	envOpts := append(c.envConfig(stderr), jml.WithContext(ctx))
	tracer, err := c.newTracer(ctx, name, src)
	if err != nil {
		return err
	}
	if tracer != nil {
		envOpts = append(envOpts, jml.WithProfiler(tracer))
	}
	env, err := jml.NewEnv(envOpts...)
	if err != nil {
		return err
	}
	if err := c.bindVariables(ctx, env, opts.variables, opts.sets); err != nil {
		return err
	}

	c.logger.Debug("evaluating program", "name", name, "bindings", len(prog.Header))
	v, err := env.EvalProgram(prog)
	if err != nil {
		return c.renderError(stderr, name, src, env, err)
	}
	out, err := encodeResult(v, opts.format, opts.compact)
	if err != nil {
		return err
	}
	if opts.output != "" {
		return os.WriteFile(opts.output, out, 0644) //#nosec G306
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// encodeResult serializes v followed by a newline.
func encodeResult(v *jml.Value, format string, compact bool) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch format {
	case "", "json":
		indent := "  "
		if compact {
			indent = ""
		}
		out, err = libjson.Dump(v, indent)
	case "yaml":
		indent := 2
		if compact {
			indent = 0
		}
		out, err = libyaml.Dump(v, indent)
	default:
		return nil, fmt.Errorf("unknown output format: %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("writing result: %w", err)
	}
	return append(bytes.TrimRight(out, "\n"), '\n'), nil
}
