// Package logx is the node's leveled logger. Messages are plain strings so
// MCU builds avoid fmt; host builds route through logrus.
package logx

// Logger is a leveled, component-scoped logger.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	// With returns a logger tagged with a component name.
	With(component string) Logger
}

var global Logger = Nop()

// Set replaces the process-wide logger. nil installs a no-op logger.
func Set(l Logger) {
	if l == nil {
		global = Nop()
		return
	}
	global = l
}

// L returns the process-wide logger.
func L() Logger { return global }

// Named returns the process-wide logger tagged with component.
func Named(component string) Logger { return global.With(component) }

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string)          {}
func (nopLogger) Info(string)           {}
func (nopLogger) Warn(string)           {}
func (nopLogger) Error(string)          {}
func (n nopLogger) With(string) Logger { return n }
