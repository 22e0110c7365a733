package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Entry
)

type Fields = logrus.Fields

func init() {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
}

func SetLevel(l logrus.Level) {
	logger.Logger.SetLevel(l)
}

func SetOutput(w io.Writer) {
	logger.Logger.SetOutput(w)
}

// SetJSON switches the shared logger to the JSON formatter
func SetJSON() {
	logger.Logger.SetFormatter(&logrus.JSONFormatter{})
}

// Component returns an entry tagged with the emitting component
func Component(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func WithError(e error) *logrus.Entry {
	return logger.WithError(e)
}

func Entry() *logrus.Entry {
	return logger
}

func Error(args ...interface{}) {
	logger.Error(args...)
}
