// Package logger provides structured logging with per-worker context.
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is the logging interface used across the bridge layer.
type Logger interface {
	Debug(message string, fields ...Field)
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(message string, fields ...Field)
	WithWorker(name string) Logger
}

// Field is a structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// F creates a field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// workerLogger implements Logger on top of logrus, tagging every entry with
// the worker it belongs to when one is set.
type workerLogger struct {
	logger *logrus.Logger
	worker string
}

// consoleFormatter renders compact colored lines for terminal output.
type consoleFormatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter
func (f *consoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)

	var levelColor *color.Color
	var levelText string
	switch entry.Level {
	case logrus.ErrorLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "ERROR"
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
		levelText = "WARN"
	case logrus.DebugLevel:
		levelColor = color.New(color.FgWhite, color.Faint)
		levelText = "DEBUG"
	default:
		levelColor = color.New(color.FgCyan)
		levelText = "INFO"
	}

	workerPrefix := ""
	if worker, ok := entry.Data["worker"]; ok {
		workerPrefix = fmt.Sprintf("[%s] ", color.New(color.FgBlue).Sprint(worker))
		delete(entry.Data, "worker")
	}

	var output string
	if f.DisableColors {
		output = fmt.Sprintf("[%s] %s: %s%s", timestamp, levelText, workerPrefix, entry.Message)
	} else {
		output = fmt.Sprintf("[%s] %s: %s%s",
			timestamp, levelColor.Sprint(levelText), workerPrefix, entry.Message)
	}

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := " {"
		for i, k := range keys {
			if i > 0 {
				fields += ", "
			}
			fields += fmt.Sprintf("%s=%v", k, entry.Data[k])
		}
		fields += "}"
		output += color.New(color.FgWhite, color.Faint).Sprint(fields)
	}

	return []byte(output + "\n"), nil
}

// New creates a logger writing colored output to stdout. An invalid level
// falls back to info.
func New(logLevel string) Logger {
	return NewWithOutput(logLevel, os.Stdout, false)
}

// NewWithOutput creates a logger with a custom output, used by tests and by
// the CLI when a log file is configured.
func NewWithOutput(logLevel string, output io.Writer, disableColors bool) Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&consoleFormatter{
		TimestampFormat: "15:04:05",
		DisableColors:   disableColors,
	})
	log.SetOutput(output)

	return &workerLogger{logger: log}
}

// WithWorker returns a logger that tags entries with the worker name.
func (l *workerLogger) WithWorker(name string) Logger {
	return &workerLogger{logger: l.logger, worker: name}
}

func (l *workerLogger) convertFields(fields []Field) logrus.Fields {
	result := make(logrus.Fields)
	if l.worker != "" {
		result["worker"] = l.worker
	}
	for _, f := range fields {
		result[f.Key] = f.Value
	}
	return result
}

// Debug logs a debug message
func (l *workerLogger) Debug(message string, fields ...Field) {
	l.logger.WithFields(l.convertFields(fields)).Debug(message)
}

// Info logs an info message
func (l *workerLogger) Info(message string, fields ...Field) {
	l.logger.WithFields(l.convertFields(fields)).Info(message)
}

// Warn logs a warning message
func (l *workerLogger) Warn(message string, fields ...Field) {
	l.logger.WithFields(l.convertFields(fields)).Warn(message)
}

// Error logs an error message
func (l *workerLogger) Error(message string, fields ...Field) {
	l.logger.WithFields(l.convertFields(fields)).Error(message)
}

// nopLogger discards everything.
type nopLogger struct{}

// NewNop returns a logger that discards all output.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field)   {}
func (nopLogger) Info(string, ...Field)    {}
func (nopLogger) Warn(string, ...Field)    {}
func (nopLogger) Error(string, ...Field)   {}
func (nopLogger) WithWorker(string) Logger { return nopLogger{} }
