package commands

import (
	"fmt"

	preview "github.com/ironsheep/image-preview"
	"github.com/ironsheep/image-preview/internal/imaging"
	"github.com/spf13/cobra"
)

func (c *CLI) newKeyCmd() *cobra.Command {
	var specs []string

	cmd := &cobra.Command{
		Use:   "key <image>",
		Short: "Print the cache file name for an image and operations without decoding it",
		Long: `Print the cache file name for an image and operations without decoding it.

The extension is taken from the requested path. When the source cannot be
opened and the default preview stands in, make writes the file with the
default preview's extension instead, so the names differ in extension only.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOperations(specs)
			if err != nil {
				return err
			}

			var log preview.TransformLog
			for _, op := range ops {
				log.Append(op)
			}

			fp := preview.Digest(args[0], &log)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), fp.Name(imaging.Extension(args[0])))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&specs, "op", "o", nil, opUsage)
	return cmd
}
