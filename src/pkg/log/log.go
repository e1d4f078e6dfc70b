package log

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log wraps a logrus logger with the service name and a coarse level gate.
type Log struct {
	AppName  string
	LogLevel int
	Logger   *logrus.Logger
}

var mapOfLogLevel = map[string]int{
	"DEBUG": 1,
	"INFO":  1,
	"ERROR": 2,
}

// New builds a JSON logger writing to stdout.
func New(appName, level string) Log {
	return NewWithWriter(appName, level, os.Stdout)
}

func NewWithWriter(appName, level string, out io.Writer) Log {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{})
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	gate, ok := mapOfLogLevel[strings.ToUpper(level)]
	if !ok {
		gate = 1
	}

	return Log{
		AppName:  appName,
		LogLevel: gate,
		Logger:   l,
	}
}

// Discard is a logger for tests and tools.
func Discard() Log {
	return NewWithWriter("test", "ERROR", io.Discard)
}

func (l Log) fields(context, scope, meta string, skip int) logrus.Fields {
	_, file, line, _ := runtime.Caller(skip)
	return logrus.Fields{
		"service": l.AppName,
		"context": context,
		"scope":   scope,
		"meta":    meta,
		"file":    file,
		"line":    line,
	}
}

func (l Log) Info(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.Logger.WithFields(l.fields(context, scope, meta, 2)).Info(message)
}

func (l Log) Debug(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.Logger.WithFields(l.fields(context, scope, meta, 2)).Debug(message)
}

// Error records the caller and the caller's caller so usecase failures point at the handler too.
func (l Log) Error(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 2 {
		return
	}
	fields := l.fields(context, scope, meta, 2)
	_, file2, line2, _ := runtime.Caller(3)
	fields["file2"] = file2
	fields["line2"] = line2
	l.Logger.WithFields(fields).Error(message)
}

func (l Log) Slow(context, message, scope, meta string) {
	if l.Logger == nil || l.LogLevel > 1 {
		return
	}
	l.Logger.WithFields(l.fields(context, scope, meta, 3)).Warn("[SLOW] " + message)
}
