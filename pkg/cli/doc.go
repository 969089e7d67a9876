// Package cli implements the command-line interface for the feedctl tool.
//
// # Commands
//
// validate - Validate a local feed file:
//
//	feedctl validate --file feed.csv [--format yaml|json|table] [--output FILE]
//	feedctl validate --file feed.json --fail-on-error
//
// Parses the feed (JSON, CSV, or TSV), runs every record through the rule
// engine, and prints the summary plus the ordered issue list. Use
// --fail-on-error for CI pipelines (non-zero exit when any record errors).
//
// serve - Run the validation API server:
//
//	feedctl serve
//
// Exposes the upload-and-validate and fetch-and-validate endpoints plus
// health, readiness, and Prometheus metrics.
//
// version - Print build version information.
//
// # Global Flags
//
//	--debug       Enable debug logging
//	--help, -h    Show command help
//
// # Environment Variables
//
//	PORT               Listen port for the API server (default 8080)
//	LOG_LEVEL          Logging verbosity (debug, info, warn, error)
//	FEEDCHECK_ROW_CAP  Server-side maximum records per validation run
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/parser - byte-to-record decoding
//   - pkg/rules - field vocabulary, aliases, enums, value shapes
//   - pkg/validator - rule engine and aggregation
//   - pkg/serializer - output formatting
//   - pkg/server - HTTP hosting
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/feedcheck/feedcheck/pkg/version.Version=1.0.0'"
package cli
