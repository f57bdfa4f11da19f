// Package logging provides logger construction for wavekit. Every component
// logs through logrus; this package centralizes level and format setup so
// all clients configure output the same way.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel is the environment variable controlling the default level.
const EnvLogLevel = "WAVEKIT_LOG_LEVEL"

// New creates a logger with the standard wavekit configuration: text output
// to stderr with full timestamps, level taken from WAVEKIT_LOG_LEVEL
// (default info).
func New() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(levelFromEnv())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	return logger
}

// Nop returns a logger that discards everything. Components treat a nil
// logger as Nop so callers can opt out of output entirely.
func Nop() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// OrNop returns logger if non-nil, otherwise a discarding logger.
func OrNop(logger *logrus.Logger) *logrus.Logger {
	if logger != nil {
		return logger
	}
	return Nop()
}

// Component returns an entry tagged with a component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func levelFromEnv() logrus.Level {
	raw := os.Getenv(EnvLogLevel)
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
