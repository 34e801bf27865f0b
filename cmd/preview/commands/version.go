package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "preview %s\n", c.build.Version)
			_, _ = fmt.Fprintf(out, "  Build time: %s\n", c.build.BuildTime)
			_, _ = fmt.Fprintf(out, "  Git commit: %s\n", c.build.GitCommit)
		},
	}
}
