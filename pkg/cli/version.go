package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/feedcheck/feedcheck/pkg/serializer"
	"github.com/feedcheck/feedcheck/pkg/version"
)

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: "yaml",
				Usage: "Output format (json, yaml, table)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			w, closeOut, err := serializer.NewFileWriterOrStdout(outFormat, "")
			if err != nil {
				return err
			}
			defer closeOut()
			return w.Serialize(ctx, version.Get())
		},
	}
}
