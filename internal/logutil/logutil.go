// Package logutil sets up the global zerolog logger for the commands.
package logutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at stderr, as JSON or as human readable console output.
func Setup(levelStr string, json bool) {
	SetupWriter(levelStr, json, os.Stderr)
}

// SetupWriter is like Setup but writes to w.
// An unknown level is reported through the new logger.
func SetupWriter(levelStr string, json bool, w io.Writer) {
	if !json {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	level, ok := Level(levelStr)
	log.Logger = zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Caller().
		Logger()
	if !ok {
		log.Warn().Msgf("Unknown log level '%s', defaulting to info", levelStr)
	}
}

// Level parses levelStr. It returns info and false for an unknown or empty level.
func Level(levelStr string) (zerolog.Level, bool) {
	levelStr = strings.ToLower(levelStr)
	if levelStr == "warning" {
		levelStr = "warn"
	}

	var level zerolog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil || levelStr == "" {
		return zerolog.InfoLevel, false
	}
	return level, true
}
