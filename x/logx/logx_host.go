//go:build !tinygo

package logx

import (
	"io"

	"github.com/sirupsen/logrus"
)

func init() {
	global = NewLogrus(logrus.StandardLogger())
}

// Setup configures the standard logrus logger: full timestamps, the given
// level name ("debug", "info", ...) and output.
func Setup(level string, out io.Writer) error {
	std := logrus.StandardLogger()
	std.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if out != nil {
		std.SetOutput(out)
	}
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	std.SetLevel(lvl)
	return nil
}

// NewLogrus adapts a logrus logger.
func NewLogrus(l *logrus.Logger) Logger {
	return logrusLogger{e: logrus.NewEntry(l)}
}

type logrusLogger struct{ e *logrus.Entry }

func (l logrusLogger) Debug(msg string) { l.e.Debug(msg) }
func (l logrusLogger) Info(msg string)  { l.e.Info(msg) }
func (l logrusLogger) Warn(msg string)  { l.e.Warn(msg) }
func (l logrusLogger) Error(msg string) { l.e.Error(msg) }

func (l logrusLogger) With(component string) Logger {
	return logrusLogger{e: l.e.WithField("component", component)}
}
