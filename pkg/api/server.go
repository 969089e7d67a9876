package api

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/feedcheck/feedcheck/pkg/logging"
	"github.com/feedcheck/feedcheck/pkg/pipeline"
	"github.com/feedcheck/feedcheck/pkg/server"
	"github.com/feedcheck/feedcheck/pkg/validator"
	"github.com/feedcheck/feedcheck/pkg/version"
)

const name = "feedcheck-api-server"

// Serve starts the API server and blocks until shutdown.
// It configures logging, builds the validation pipeline, registers routes,
// and handles graceful shutdown. Returns an error if the server fails to
// start or encounters a fatal error.
func Serve(ctx context.Context) error {
	info := version.Get()

	logging.SetDefaultStructuredLogger(name, info.Version)
	slog.Info("starting",
		"name", name,
		"version", info.Version,
		"commit", info.Commit,
		"date", info.Date,
	)

	p, err := pipeline.New(ctx, validatorOptions()...)
	if err != nil {
		slog.Error("failed to build validation pipeline", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(info.Version),
		server.WithHandler(p.Routes()),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// validatorOptions reads engine overrides from the environment.
func validatorOptions() []validator.Option {
	var opts []validator.Option
	if raw := os.Getenv("FEEDCHECK_ROW_CAP"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			opts = append(opts, validator.WithRowCap(n))
		} else {
			slog.Warn("ignoring invalid FEEDCHECK_ROW_CAP", "value", raw)
		}
	}
	return opts
}
