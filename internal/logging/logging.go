// Package logging provides the component-tagged logger threaded through the
// preview subsystems.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging shape every subsystem accepts.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

// Options configures New.
type Options struct {
	// Debug lowers the level so Debugf output is written.
	Debug bool
	// File, when set, receives a copy of every line and is rotated by size.
	File string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Color enables ANSI level colors.
	Color bool
}

// LogrusLogger implements Logger on top of logrus.
type LogrusLogger struct {
	entry  *logrus.Logger
	closer io.Closer
}

func New(opts Options) *LogrusLogger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := &LogrusLogger{entry: logrus.New()}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		}
		l.closer = rotating
		out = io.MultiWriter(out, rotating)
	}

	l.entry.SetOutput(out)
	l.entry.SetFormatter(&componentFormatter{color: opts.Color})
	if opts.Debug {
		l.entry.SetLevel(logrus.DebugLevel)
	} else {
		l.entry.SetLevel(logrus.InfoLevel)
	}
	return l
}

func (l *LogrusLogger) Infof(component, format string, args ...interface{}) {
	l.entry.WithField(componentField, component).Infof(format, args...)
}

func (l *LogrusLogger) Errorf(component, format string, args ...interface{}) {
	l.entry.WithField(componentField, component).Errorf(format, args...)
}

func (l *LogrusLogger) Debugf(component, format string, args ...interface{}) {
	l.entry.WithField(componentField, component).Debugf(format, args...)
}

// Close releases the rotating log file, if any.
func (l *LogrusLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

const componentField = "component"

// componentFormatter writes "[LEVEL time] [component] message".
type componentFormatter struct {
	color bool
}

func (f *componentFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05")

	var levelColor, levelText string
	switch entry.Level {
	case logrus.InfoLevel:
		levelColor, levelText = "\033[36m", " INFO"
	case logrus.WarnLevel:
		levelColor, levelText = "\033[33m", " WARN"
	case logrus.ErrorLevel:
		levelColor, levelText = "\033[31m", "ERROR"
	case logrus.DebugLevel:
		levelColor, levelText = "\033[37m", "DEBUG"
	default:
		levelColor, levelText = "\033[0m", strings.ToUpper(entry.Level.String())
	}
	reset := "\033[0m"
	if !f.color {
		levelColor, reset = "", ""
	}

	component := "main"
	if value, ok := entry.Data[componentField].(string); ok && value != "" {
		component = value
	}

	return []byte(fmt.Sprintf("[%s%s%s %s] [%10s] %s\n",
		levelColor, levelText, reset, timestamp, component, entry.Message)), nil
}
