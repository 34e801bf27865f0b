package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

const opUsage = "Operation applied in order, repeatable: resize:W,H[,keep[,upscale]] or crop:W,H[,X,Y]"

func (c *CLI) newMakeCmd() *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "make <image>",
		Short: "Create a cached preview and print its path and URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOperations(specs)
			if err != nil {
				return err
			}

			svc, logger, err := c.service(cmd)
			if err != nil {
				return err
			}

			img, err := svc.Create(args[0])
			if err != nil {
				return err
			}
			for _, op := range ops {
				img.Apply(op)
			}

			path, err := img.Cache()
			if err != nil {
				return err
			}
			if img.Substituted() {
				logger.Warn().Str("source", args[0]).Msg("preview made from the default image")
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "path: %s\n", path)
			_, _ = fmt.Fprintf(out, "url:  %s\n", img.URL())
			_, _ = fmt.Fprintf(out, "size: %dx%d (%s)\n", img.Width(), img.Height(), img.Orientation())
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&specs, "op", "o", nil, opUsage)
	return cmd
}
