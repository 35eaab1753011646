package observability

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a structured logger with the given level ("debug", "info",
// "warn", "error") and format ("text" or "json"). Unknown values fall back to
// info/text rather than failing startup.
func NewLogger(level, format string) *logrus.Logger {
	log := logrus.New()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// NewTestLogger creates a silent logger for tests.
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
