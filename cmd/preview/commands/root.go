// Package commands implements the CLI commands for the preview tool.
package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v9"
	preview "github.com/ironsheep/image-preview"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// BuildInfo identifies the binary. Set by ldflags in main.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// cliEnv holds the defaults for the persistent flags.
type cliEnv struct {
	Config   string `env:"CONFIG"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// CLI represents the command line interface for preview.
type CLI struct {
	build   BuildInfo
	rootCmd *cobra.Command

	configPath string
	logLevel   string
}

// New creates a new CLI instance.
func New(build BuildInfo) *CLI {
	var defaults cliEnv
	// Unparseable environment falls back to the zero defaults.
	_ = env.ParseWithOptions(&defaults, env.Options{Prefix: preview.EnvPrefix})
	if defaults.LogLevel == "" {
		defaults.LogLevel = "info"
	}

	rootCmd := &cobra.Command{
		Use:           "preview",
		Short:         "Resize and crop images into a content-addressed preview cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, built: %s)\n",
		build.GitCommit,
		build.BuildTime,
	))

	c := &CLI{
		build:   build,
		rootCmd: rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", defaults.Config, "YAML configuration file (env PREVIEW_CONFIG)")
	flags.StringVar(&c.logLevel, "log-level", defaults.LogLevel, "Log level: debug, info, warn, error (env PREVIEW_LOG_LEVEL)")

	rootCmd.AddCommand(c.newMakeCmd())
	rootCmd.AddCommand(c.newKeyCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the input stream read by serve. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.rootCmd.SetIn(in)
}

// newLogger returns a human-readable logger writing to w.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cw := zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
		cw.TimeFormat = time.RFC3339
	})
	return zerolog.New(cw).Level(lvl).With().Timestamp().Logger(), nil
}

// service loads the configuration and builds the preview service. Logs go
// to the command's error stream so that stdout stays clean for results.
func (c *CLI) service(cmd *cobra.Command) (*preview.Service, zerolog.Logger, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), c.logLevel)
	if err != nil {
		return nil, logger, err
	}

	cfg, err := preview.LoadConfig(c.configPath)
	if err != nil {
		return nil, logger, err
	}

	svc, err := preview.New(cfg, preview.WithLogger(logger))
	if err != nil {
		return nil, logger, err
	}
	return svc, logger, nil
}
