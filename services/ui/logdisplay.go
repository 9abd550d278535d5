package ui

import (
	"envnode-go/types"
	"envnode-go/x/logx"
)

// LogDisplay is a headless display: each frame is rendered to one log line,
// emitted only when it differs from the previous frame.
type LogDisplay struct {
	log  logx.Logger
	cur  Layout
	prev Layout
	seen bool
}

func NewLogDisplay(l logx.Logger) *LogDisplay { return &LogDisplay{log: l} }

func (d *LogDisplay) Clear()                { d.cur = Layout{} }
func (d *LogDisplay) Draw(s types.Snapshot) { d.cur = Render(s) }

func (d *LogDisplay) Flush() error {
	if d.seen && d.cur == d.prev {
		return nil
	}
	d.prev, d.seen = d.cur, true
	line := d.cur.Temperature + " " + d.cur.Humidity + " " + d.cur.CO2
	if d.cur.RF {
		line += " RF"
	}
	d.log.Info(line)
	return nil
}

// Log forwards a startup status line.
func (d *LogDisplay) Log(text string) error {
	d.log.Info(text)
	return nil
}
