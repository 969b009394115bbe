// Copyright © 2018 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/luthersystems/jml/diagnostic"
	"github.com/luthersystems/jml/repl"
	"github.com/spf13/cobra"
)

func (c *cli) replCommand() *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive JML REPL",
		Long: `Start an interactive read-eval-print loop for JML.

Each input is either an expression, which is evaluated and printed, or a
binding of the form "name = expr".  Bindings are evaluated immediately and
remain visible to later inputs.  Input that ends inside an unclosed bracket
continues on the next line.  Line editing, name completion and command
history are supported via readline.  Use Ctrl-D to exit.

Example REPL session:
  jml> xs = [1, 2, 3]
  jml> map(xs, \x. x * 2)
  [2, 4, 6]
  jml> reduce(xs, 0, \x acc. x + acc)
  6`,
		Args: cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			opts := []repl.Option{
				repl.WithEnvConfig(c.envConfig(cmd.ErrOrStderr())...),
			}
			if cmd.Flags().Changed("history") {
				opts = append(opts, repl.WithHistoryFile(history))
			}
			if c.colorMode() == diagnostic.ColorNever {
				opts = append(opts, repl.WithoutColor())
			}
			return repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
		}),
	}
	cmd.Flags().StringVar(&history, "history", "",
		"File used to persist input history (default is $HOME/.jml_history, empty disables history).")
	return cmd
}
