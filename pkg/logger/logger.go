// Package logger provides the shared logrus logger used by fitsrender
// commands. Set DEBUG=1 or call SetVerbose for debug output.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger.
var Log = newLogger()

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      true,
		DisableTimestamp: true,
	})

	if os.Getenv("DEBUG") == "1" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// SetVerbose switches Log to debug level regardless of DEBUG.
func SetVerbose(v bool) {
	if v {
		Log.SetLevel(logrus.DebugLevel)
	}
}
