// Package logx sets up the process logger. One-shot job, so there is no
// reconfiguration: level comes from SCOUT_LOG_LEVEL once at startup.
package logx

import (
	"os"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05Z07:00"

func New() zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("SCOUT_LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(s); err == nil {
			level = l
		}
	}

	out := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: consoleTimeFormat,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
