// Package log provides loggers for synth components.
package log

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DebugEnv is the environment variable that enables debug logging and
// native leak diagnostics.
const DebugEnv = "SYNTH_DEBUG"

var debug bool

// Logger is a global interface for synth loggers.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv(DebugEnv))
	if err != nil {
		debug = false
	}
}

// IsDebug returns true if SYNTH_DEBUG was set to a true value at start.
func IsDebug() bool {
	return debug
}

// GetLogger returns a new logger instance.
func GetLogger() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Component returns a logger entry tagged with component name and id.
func Component(l *logrus.Logger, name, id string) *logrus.Entry {
	return l.WithFields(logrus.Fields{
		"component": name,
		"id":        id,
	})
}

type silentLogger struct{}

func (silentLogger) Debug(args ...interface{}) {}

func (silentLogger) Info(args ...interface{}) {}

func (silentLogger) Warn(args ...interface{}) {}

// Silent is a logger that drops everything. It's used when no logger is
// provided.
var Silent Logger = silentLogger{}
