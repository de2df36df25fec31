package app

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
)

// NewLogger builds the process logger from config: console style for humans,
// JSON otherwise. Unknown level names fall back to info.
func NewLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if strings.EqualFold(cfg.Style, "json") {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
