//go:build tinygo

package logx

func init() {
	global = printLogger{}
}

// printLogger writes "[component] LEVEL msg" lines to the default console.
type printLogger struct{ tag string }

func (l printLogger) log(level, msg string) {
	if l.tag != "" {
		println("[" + l.tag + "] " + level + msg)
		return
	}
	println(level + msg)
}

func (l printLogger) Debug(msg string) { l.log("DEBUG ", msg) }
func (l printLogger) Info(msg string)  { l.log("INFO  ", msg) }
func (l printLogger) Warn(msg string)  { l.log("WARN  ", msg) }
func (l printLogger) Error(msg string) { l.log("ERROR ", msg) }

func (l printLogger) With(component string) Logger { return printLogger{tag: component} }
