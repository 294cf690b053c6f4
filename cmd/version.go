package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"concertcloud-cli/config"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of concertcloud",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", config.AppName, Version)
			if Commit != "none" && Commit != "" {
				fmt.Fprintf(out, " (%s)", Commit)
			}
			fmt.Fprintln(out)
		},
	}
}
