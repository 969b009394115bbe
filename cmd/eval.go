// Copyright © 2024 The ELPS authors

package cmd

import (
	"github.com/spf13/cobra"
)

// evalSourceName names programs given on the command line in diagnostics.
const evalSourceName = "<eval>"

func (c *cli) evalCommand() *cobra.Command {
	var opts evalOptions
	cmd := &cobra.Command{
		Use:   "eval [flags] PROGRAM",
		Short: "Evaluate a JML program given as an argument",
		Long: `Evaluate a JML program given as an argument and write the result as JSON.

Examples:
  jml eval '[1, 2] ++ [3]'
  jml eval -v orders=orders.json 'map(orders, \o. o.id)'
  jml eval --set n=10 'n * 2'`,
		Args: cobra.ExactArgs(1),
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			return c.evaluate(cmd, evalSourceName, []byte(args[0]), &opts)
		}),
	}
	opts.addFlags(cmd)
	return cmd
}
