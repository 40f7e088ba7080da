package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the application logger. It writes to stderr so that reports stay clean on stdout.
var Logger = logrus.New()

// NewLogger configures Logger for cfg and returns it.
func NewLogger(cfg Config) *logrus.Logger {
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	Logger.SetLevel(cfg.LogLevel)
	return Logger
}
