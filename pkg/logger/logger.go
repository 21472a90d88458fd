package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"doc-analysis-server/internal/domain"
)

// AppLogger implements the domain.Logger interface on top of zerolog.
type AppLogger struct {
	log zerolog.Logger
}

// NewLogger creates a new logger instance. format is "console" or
// "json"; anything else defaults to console output.
func NewLogger(levelStr, format string) domain.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	if strings.EqualFold(format, "json") {
		log = zerolog.New(os.Stdout)
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return &AppLogger{
		log: log.Level(level).With().Timestamp().Logger(),
	}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	withFields(l.log.Info(), fields).Msg(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	withFields(l.log.Error().Err(err), fields).Msg(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	withFields(l.log.Debug(), fields).Msg(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	withFields(l.log.Warn(), fields).Msg(msg)
}

// withFields attaches alternating key/value pairs to the event.
// Keys that are not strings and trailing values without a key are
// dropped rather than panicking.
func withFields(e *zerolog.Event, fields []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, fields[i+1])
	}
	return e
}
