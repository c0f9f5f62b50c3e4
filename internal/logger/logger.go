// Package logger builds the service's structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// Options controls logger construction.
type Options struct {
	Level string
	// File, when set, receives a copy of every entry with size based rotation.
	File string
	// Output overrides stdout, mainly for tests.
	Output io.Writer
}

// New creates a JSON logger for the named service.
func New(service string, opts Options) *logrus.Entry {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	var out io.Writer = os.Stdout
	if opts.Output != nil {
		out = opts.Output
	}
	if opts.File != "" {
		out = io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		})
	}
	log.SetOutput(out)
	log.SetLevel(ParseLevel(opts.Level))

	return log.WithField("service", service)
}

// ParseLevel maps a LOG_LEVEL value, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	}
	return logrus.InfoLevel
}

// GormLevel maps a LOG_LEVEL value onto gorm's SQL logger.
func GormLevel(level string) gormlogger.LogLevel {
	switch ParseLevel(level) {
	case logrus.DebugLevel:
		return gormlogger.Info
	case logrus.ErrorLevel:
		return gormlogger.Error
	}
	return gormlogger.Warn
}

// Discard returns a logger that drops everything, for tests.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
