package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/feedcheck/feedcheck/pkg/pipeline"
	"github.com/feedcheck/feedcheck/pkg/serializer"
	"github.com/feedcheck/feedcheck/pkg/validator"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"val"},
		Usage:   "Validate a local feed file and print the findings",
		Description: `Validates a product feed (JSON, CSV, or TSV) against the listing rules
and prints the summary and issue list.

# Examples

Validate a CSV feed:
  feedctl validate --file feed.csv

Validate a JSON feed and write the result to a file:
  feedctl validate --file feed.json --format yaml --output result.yaml

Fail the process when any record has an error (for CI):
  feedctl validate --file feed.csv --fail-on-error`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Path to the feed file to validate",
			},
			&cli.StringFlag{
				Name:  "delimiter",
				Usage: "Column delimiter for delimited feeds (sniffed when empty)",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "Character encoding of the feed (default: utf-8)",
			},
			&cli.IntFlag{
				Name:  "row-cap",
				Usage: "Maximum number of records to validate",
				Value: validator.DefaultRowCap,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "Output format (json, yaml, table)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit non-zero when any error-severity issue is found",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return fmt.Errorf("failed to read feed file: %w", err)
			}

			p, err := pipeline.New(ctx, validator.WithRowCap(int(cmd.Int("row-cap"))))
			if err != nil {
				return fmt.Errorf("failed to build validation pipeline: %w", err)
			}

			result, err := p.ValidateBytes(ctx, data, cmd.String("delimiter"), cmd.String("encoding"))
			if err != nil {
				return fmt.Errorf("failed to validate feed: %w", err)
			}

			w, closeOut, err := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			if err != nil {
				return err
			}
			defer closeOut()

			if err := w.Serialize(ctx, result); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") && result.Summary.ItemsWithErrors > 0 {
				return cli.Exit(fmt.Sprintf("feed has %d error(s)", result.Summary.ItemsWithErrors), 1)
			}
			return nil
		},
	}
}
