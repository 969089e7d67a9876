// Package logging configures the process-wide slog default logger.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LevelFromEnv resolves the log level from the LOG_LEVEL environment
// variable, defaulting to info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefaultStructuredLogger installs a JSON slog handler carrying the
// service name and version on every log line. Level comes from LOG_LEVEL.
func SetDefaultStructuredLogger(name, version string) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: LevelFromEnv()})
	slog.SetDefault(slog.New(handler).With(
		"service", name,
		"version", version,
	))
}

// SetDefaultTextLogger installs a human-readable handler for CLI use.
// debug overrides the LOG_LEVEL environment variable.
func SetDefaultTextLogger(debug bool) {
	level := LevelFromEnv()
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
