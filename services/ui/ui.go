// Package ui renders node snapshots for a 128x32 monochrome panel.
package ui

import (
	"envnode-go/types"
	"envnode-go/x/conv"
)

// Panel geometry and text anchors. Y values are text baselines.
const (
	Width  = 128
	Height = 32

	tempX, tempY = 0, 12
	humX, humY   = 95, 12
	co2X, co2Y   = 0, 30
	iconX, iconY = 105, 20

	LogLines   = 4
	LogLineLen = 32
	logPitch   = 8

	// RF icon is lit while fewer than this many ticks have passed since the
	// transmit request.
	txIndicatorTicks = 10
)

// Layout is the text content of one frame.
type Layout struct {
	Temperature string
	Humidity    string
	CO2         string
	RF          bool
}

// Render turns a snapshot into a Layout. Channels in error show "ERR",
// channels without any averaged sample yet show "--".
func Render(s types.Snapshot) Layout {
	a := s.Averages
	var l Layout
	var b [16]byte

	switch {
	case s.Errors.Temperature:
		l.Temperature = "ERR"
	case !a.Valid:
		l.Temperature = "--"
	default:
		l.Temperature = string(append(conv.AppendCenti(b[:0], int64(a.Temperature.CentiC)), 'C'))
	}

	switch {
	case s.Errors.Humidity:
		l.Humidity = "ERR"
	case !a.Valid:
		l.Humidity = "--"
	default:
		l.Humidity = string(append(conv.AppendUint(b[:0], uint64(a.Humidity.Percent)), '%'))
	}

	switch {
	case s.Errors.CO2:
		l.CO2 = "ERR"
	case !a.Valid:
		l.CO2 = "--"
	default:
		l.CO2 = string(append(conv.AppendUint(b[:0], uint64(a.CO2.PPM)), "ppm"...))
	}

	l.RF = s.TicksSinceLastTx < txIndicatorTicks
	return l
}

// LogBuffer keeps the most recent LogLines status lines.
type LogBuffer struct {
	lines [LogLines]string
	n     int
}

// Add appends text, truncated to LogLineLen bytes, dropping the oldest line
// when full.
func (b *LogBuffer) Add(text string) {
	if len(text) > LogLineLen {
		text = text[:LogLineLen]
	}
	if b.n < LogLines {
		b.lines[b.n] = text
		b.n++
		return
	}
	copy(b.lines[:], b.lines[1:])
	b.lines[LogLines-1] = text
}

// Lines returns the buffered lines, oldest first.
func (b *LogBuffer) Lines() []string { return b.lines[:b.n] }
