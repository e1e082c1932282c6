package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func parseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("invalid log level: %s", level)
	}
}

// ConfigureLogger sets up the global zerolog logger on out.
// "auto" picks the console writer when out is a terminal.
func (c Config) ConfigureLogger(out *os.File) {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	switch strings.ToLower(c.LogFormat) {
	case "console":
		w = zerolog.ConsoleWriter{Out: out}
	case "auto":
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			w = zerolog.ConsoleWriter{Out: out}
		}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}
