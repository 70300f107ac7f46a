// Package obslog provides the structured logger shared by the orchestrator,
// dispatchers and CLI front-end. Where gophersat prints "c ..." comment
// lines to stdout for progress and stats, this engine emits structured
// logrus records instead, carrying the same information as fields.
package obslog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger. Verbose mode (the CLI's
// --verbose flag) raises its level to Debug; default is Info.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   false,
		TimestampFormat: "15:04:05.000",
	}
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose switches the logger between Info and Debug level.
func SetVerbose(verbose bool) {
	if verbose {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// RunFields returns the base field set every log record for a single
// orchestrator run should carry.
func RunFields(runID, engine string, v, k, c int) logrus.Fields {
	return logrus.Fields{
		"run_id": runID,
		"engine": engine,
		"v":      v,
		"k":      k,
		"c":      c,
	}
}
