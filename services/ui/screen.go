package ui

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"envnode-go/types"
)

// Canvas is a buffered monochrome display such as *ssd1306.Device.
type Canvas interface {
	drivers.Displayer
	ClearBuffer()
}

var on = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// rfIcon is an 8x8 antenna glyph, one byte per row, MSB on the left.
var rfIcon = [8]byte{
	0b10000001,
	0b01000010,
	0b00100100,
	0b00011000,
	0b00011000,
	0b00011000,
	0b00011000,
	0b00111100,
}

// Screen draws snapshots and startup log lines on a Canvas.
type Screen struct {
	c    Canvas
	font *tinyfont.Font
	log  LogBuffer
}

// NewScreen returns a Screen drawing on c.
func NewScreen(c Canvas) *Screen {
	return &Screen{c: c, font: &proggy.TinySZ8pt7b}
}

func (s *Screen) Clear() { s.c.ClearBuffer() }

// Draw renders snap into the frame buffer. Call Flush to show it.
func (s *Screen) Draw(snap types.Snapshot) {
	l := Render(snap)
	tinyfont.WriteLine(s.c, s.font, tempX, tempY, l.Temperature, on)
	tinyfont.WriteLine(s.c, s.font, humX, humY, l.Humidity, on)
	tinyfont.WriteLine(s.c, s.font, co2X, co2Y, l.CO2, on)
	if l.RF {
		s.icon(iconX, iconY)
	}
}

func (s *Screen) Flush() error { return s.c.Display() }

// Log adds a status line and immediately redraws the log view.
func (s *Screen) Log(text string) error {
	s.log.Add(text)
	s.c.ClearBuffer()
	for i, line := range s.log.Lines() {
		tinyfont.WriteLine(s.c, s.font, 0, int16((i+1)*logPitch), line, on)
	}
	return s.c.Display()
}

func (s *Screen) icon(x, y int16) {
	for row, bits := range rfIcon {
		for col := int16(0); col < 8; col++ {
			if bits&(0x80>>col) != 0 {
				s.c.SetPixel(x+col, y+int16(row), on)
			}
		}
	}
}
