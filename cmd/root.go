// Copyright © 2018 The ELPS authors

// Package cmd implements the jml command line tool.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/jml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cli holds the state shared by the commands of one command tree.
type cli struct {
	cfg     *cmdConfig
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
	color   diagnostic.ColorMode
	cleanup []func() error
}

// NewRootCommand returns the jml command with all subcommands attached.
func NewRootCommand(opts ...Option) *cobra.Command {
	c := &cli{
		cfg:    newCmdConfig(opts...),
		v:      viper.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	rootCmd := &cobra.Command{
		Use:   "jml",
		Short: "JML: a JSON transformation language",
		Long: `JML is an expression language for transforming and constructing JSON data.

Getting started:
  jml run --file prog.jml                  Evaluate a program and print JSON
  jml run -f prog.jml -v input=data.json   Bind a JSON document to "input"
  jml eval '[1, 2] ++ [3]'                 Evaluate an inline program
  jml repl                                 Start an interactive REPL
  jml doc map                              Show documentation for a builtin
  jml check ./...                          Report problems in programs

Language overview:
  A program is a list of bindings followed by "---" and a body expression.
  Values are null, booleans, integers, floats, strings, lists, objects and
  lambdas.  Lambdas are written \x y. x + y and applied as f(1, 2).

Configuration is read from $HOME/.jml.yaml and JML_* environment variables,
e.g. JML_MAX_STACK_HEIGHT=1000.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.jml.yaml)")
	flags.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	flags.Bool("log", false, "Write debug logs of evaluation to stderr.")
	flags.String("log-format", "text", `Format of debug logs: "text" or "json".`)
	flags.Int("max-stack-height", 0, "Maximum depth of nested lambda applications (0 means no limit).")
	flags.String("trace", "none", `Trace lambda applications: "none", "otel", "opencensus", "pprof" or "callgrind".  Spans of "otel" and "opencensus" are written to the --log output.`)
	flags.String("trace-file", "callgrind.out.jml", "Output file of --trace=callgrind.")
	flags.String("profile", "", `Profile the interpreter: "cpu", "mem", "mutex", "block", "goroutine" or "trace".`)
	flags.String("profile-dir", ".", "Directory for --profile output.")
	// BindPFlags only fails for a nil flag set
	_ = c.v.BindPFlags(flags)

	rootCmd.AddCommand(
		c.runCommand(),
		c.evalCommand(),
		c.replCommand(),
		c.docCommand(),
		c.checkCommand(),
		c.versionCommand(),
	)
	return rootCmd
}

// Execute runs the jml command.  This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// reportedError is returned by commands that have already rendered a
// diagnostic for err.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	if err := c.readConfig(); err != nil {
		return err
	}
	color, err := diagnostic.ParseColorMode(c.v.GetString("color"))
	if err != nil {
		return err
	}
	c.color = color
	logger, err := newLogger(cmd.ErrOrStderr(), c.v.GetBool("log"), c.v.GetString("log-format"))
	if err != nil {
		return err
	}
	c.logger = logger
	if used := c.v.ConfigFileUsed(); used != "" {
		c.logger.Debug("using config file", "path", used)
	}
	return c.startProfile()
}

// runE wraps the body of a command so that profiles and traces started for it
// are finished even when it fails.
func (c *cli) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := c.teardown(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}()
		return fn(cmd, args)
	}
}

func (c *cli) teardown() error {
	var errs []error
	for i := len(c.cleanup) - 1; i >= 0; i-- {
		errs = append(errs, c.cleanup[i]())
	}
	c.cleanup = nil
	return errors.Join(errs...)
}

// readConfig reads in config file and ENV variables if set.
func (c *cli) readConfig() error {
	if c.cfgFile != "" {
		// Use config file from the flag.
		c.v.SetConfigFile(c.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		// Search config in home directory with name ".jml" (without extension).
		c.v.AddConfigPath(home)
		c.v.SetConfigName(".jml")
		c.v.SetConfigType("yaml")
	}

	c.v.SetEnvPrefix("jml")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv() // read in environment variables that match

	err := c.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return nil
	case c.cfgFile == "" && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)):
		return nil
	default:
		return fmt.Errorf("reading config: %w", err)
	}
}

// envConfig returns the environment configuration selected by flags.
func (c *cli) envConfig(stderr io.Writer) []jml.Config {
	opts := []jml.Config{
		jml.WithStderr(stderr),
		jml.WithLogger(c.logger),
		jml.WithMaximumStackHeight(c.v.GetInt("max-stack-height")),
	}
	return append(opts, c.cfg.envOpts...)
}
