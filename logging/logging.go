// Package logging - logger construction shared by the evaluation components.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New creates a text logger with full timestamps at the given level.
//
// Arguments:
//   - level: A logrus level name ("debug", "info", "warn", ...). Empty means "info".
//
// Returns:
//   - *logrus.Logger: The configured logger.
//   - error: An error if the level name is unknown.
func New(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if level == "" {
		level = logrus.InfoLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	return log, nil
}

// Discard returns an entry that drops everything written to it.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
