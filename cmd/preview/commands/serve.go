package commands

import (
	"github.com/ironsheep/image-preview/internal/server"
	"github.com/spf13/cobra"
)

func (c *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve preview tools over MCP on stdin and stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, logger, err := c.service(cmd)
			if err != nil {
				return err
			}

			logger.Debug().
				Str("version", c.build.Version).
				Str("cache", svc.Store().Dir()).
				Msg("serving preview tools")

			srv := server.New(svc, logger, c.build.Version)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
