package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

var logger *log.Logger

// Init sets up the global logger. An empty logFile logs to stderr.
func Init(verbose bool, level string, logFile string) {
	logLevel := parseLevel(level)
	if verbose {
		logLevel = log.DebugLevel
	}

	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err == nil {
			w = f
		}
	}

	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "chordgen",
	})
	logger.SetLevel(logLevel)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// GetLogger returns the logger instance, nil before Init
func GetLogger() *log.Logger {
	return logger
}
