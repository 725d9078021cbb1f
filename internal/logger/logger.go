// Package logger configures the process logger.
package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/report"
)

// New returns a logrus logger writing to w. Format "text" or "json" forces a
// formatter; anything else picks text on a terminal and JSON otherwise.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)

	switch format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		if report.IsTerminal(w) {
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		} else {
			log.SetFormatter(&logrus.JSONFormatter{})
		}
	}
	return log, nil
}
