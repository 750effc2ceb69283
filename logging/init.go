// Package logging adapts logrus to the hub, rule and transport logging
// contracts and builds configured logrus loggers.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLevel      = logrus.InfoLevel
	DefaultFormat     = "text"
	DefaultTimeFormat = "2006/01/02 15:04:05.00000"
)

var fieldMap = logrus.FieldMap{
	logrus.FieldKeyTime:  "ts",
	logrus.FieldKeyLevel: "lvl",
	logrus.FieldKeyMsg:   "msg",
}

// Configure builds a logger writing to out (stdout when nil) at level, in
// text or json format.
func Configure(out io.Writer, level, format string) (*logrus.Logger, error) {
	logger := logrus.New()
	if out == nil {
		out = os.Stdout
	}
	logger.SetOutput(out)

	if strings.TrimSpace(format) == "" {
		format = DefaultFormat
	}
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "JSON":
		logger.SetFormatter(&HubFormatter{
			BaseFormatter: &logrus.JSONFormatter{
				FieldMap: fieldMap,
			},
		})
	case "TEXT":
		logger.SetFormatter(&HubFormatter{
			BaseFormatter: &logrus.TextFormatter{
				DisableTimestamp: false,
				FullTimestamp:    true,
				TimestampFormat:  DefaultTimeFormat,
				QuoteEmptyFields: true,
				FieldMap:         fieldMap,
			},
		})
	default:
		return nil, fmt.Errorf("logging: invalid format %q, supported formats: json, text", format)
	}

	if strings.TrimSpace(level) == "" {
		level = DefaultLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level: %w", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}
