// Package logging builds the slog.Logger used throughout the engine and
// REST layer, adapted from the tint-backed logger construction of the
// distributed job scheduler in the retrieval pack: colorized output for
// local development, structured JSON for anything else.
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New builds a *slog.Logger. env == "local" or an empty env gets
// human-readable, colorized output; anything else gets JSON suitable for log
// aggregation.
func New(env string, level slog.Level) *slog.Logger {
	var handler slog.Handler
	if env == "local" || env == "" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}

// ParseLevel maps a config string onto an slog.Level, defaulting to Info
// for anything unrecognized.
func ParseLevel(name string) slog.Level {
	switch name {
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
