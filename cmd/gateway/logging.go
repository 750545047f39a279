package main

import (
	"log/slog"
	"os"
)

// newLogger builds the process-wide structured logger, grounded on
// mazei513-golang-wayland/main.go's slog.New(slog.NewTextHandler(...))
// construction, extended with a --log-format switch to slog's JSON
// handler for machine-consumed deployments.
func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
