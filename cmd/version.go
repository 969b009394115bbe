// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"runtime"

	"github.com/luthersystems/jml/jml"
	"github.com/spf13/cobra"
)

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the jml version",
		Args:  cobra.NoArgs,
		RunE: c.runE(func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "jml version %s %s/%s (%s)\n",
				jml.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
			return err
		}),
	}
}
