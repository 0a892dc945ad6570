package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages depend on the infra contract
// rather than on the logging module directly.
type Logger = zerolog.Logger

// NewLogger constructs the service logger on stdout.
func NewLogger(appEnv string) Logger {
	return NewLoggerTo(os.Stdout, appEnv)
}

// NewLoggerTo constructs a logger writing to w. Development and CLI runs get
// the human readable console writer; everything else logs JSON.
func NewLoggerTo(w io.Writer, appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()

	if appEnv == "development" || appEnv == "cli" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	}

	return logger
}

// Discard returns a logger that drops everything; used when callers pass nil.
func Discard() *Logger {
	l := zerolog.New(io.Discard)
	return &l
}
