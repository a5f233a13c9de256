// Package logger configures the process-wide zerolog logger: readable
// console output in development, JSON elsewhere.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config are the logger options.
type Config struct {
	Env   string // development -> console writer; anything else -> JSON
	Level string // trace, debug, info, warn, error
}

// New builds the logger and installs it as zerolog's global logger so
// packages that log through rs/zerolog/log pick it up too.
func New(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl
	return zl
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
