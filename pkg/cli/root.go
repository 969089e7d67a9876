package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/feedcheck/feedcheck/pkg/logging"
	"github.com/feedcheck/feedcheck/pkg/version"
)

// New builds the feedctl root command.
func New() *cli.Command {
	return &cli.Command{
		Name:    "feedctl",
		Usage:   "Validate product offer feeds against the listing rules",
		Version: version.Get().Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultTextLogger(cmd.Bool("debug"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			validateCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
