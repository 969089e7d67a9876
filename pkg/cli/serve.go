package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/feedcheck/feedcheck/pkg/api"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the feed validation API server",
		Description: `Starts the HTTP API server exposing the validation endpoints:

  POST /v1/validate/file  multipart feed upload
  POST /v1/validate/url   fetch a remote feed and validate it
  GET  /health            liveness
  GET  /ready             readiness
  GET  /metrics           Prometheus metrics

The listen port comes from the PORT environment variable (default 8080).`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return api.Serve(ctx)
		},
	}
}
