package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envnode-go/types"
	"envnode-go/x/logx"
)

func snapshot() types.Snapshot {
	var s types.Snapshot
	s.Averages.Valid = true
	s.Averages.Temperature.CentiC = 2105
	s.Averages.Humidity.Percent = 41
	s.Averages.CO2.PPM = 612
	s.TicksSinceLastTx = 30
	return s
}

func TestRender(t *testing.T) {
	assert.Equal(t, Layout{Temperature: "21.05C", Humidity: "41%", CO2: "612ppm"}, Render(snapshot()))

	s := snapshot()
	s.Averages.Temperature.CentiC = -305
	s.Errors.CO2 = true
	s.TicksSinceLastTx = 9
	assert.Equal(t, Layout{Temperature: "-3.05C", Humidity: "41%", CO2: "ERR", RF: true}, Render(s))
}

func TestRenderNoSamples(t *testing.T) {
	var s types.Snapshot
	s.Errors.Humidity = true
	s.TicksSinceLastTx = 10
	assert.Equal(t, Layout{Temperature: "--", Humidity: "ERR", CO2: "--"}, Render(s))
}

func TestLogBufferRotates(t *testing.T) {
	var b LogBuffer
	assert.Empty(t, b.Lines())
	for _, l := range []string{"a", "b", "c", "d", "e"} {
		b.Add(l)
	}
	assert.Equal(t, []string{"b", "c", "d", "e"}, b.Lines())

	b.Add("0123456789012345678901234567890123456789")
	assert.Len(t, b.Lines()[LogLines-1], LogLineLen)
}

func TestScreenDraw(t *testing.T) {
	bm := &Bitmap{}
	sc := NewScreen(bm)

	s := snapshot()
	sc.Clear()
	sc.Draw(s)
	require.NoError(t, sc.Flush())
	assert.Equal(t, 1, bm.Flushes)
	assert.NotZero(t, bm.Lit(0, 0, 60, 16), "temperature text")
	assert.Zero(t, bm.Lit(iconX, iconY, iconX+8, iconY+8), "no RF icon")

	s.TicksSinceLastTx = 0
	sc.Clear()
	sc.Draw(s)
	assert.Equal(t, iconPixels(), bm.Lit(iconX, iconY, iconX+8, iconY+8))

	sc.Clear()
	assert.Zero(t, bm.Lit(0, 0, Width, Height))
}

func TestScreenLog(t *testing.T) {
	bm := &Bitmap{}
	sc := NewScreen(bm)
	require.NoError(t, sc.Log("Display init'd"))
	assert.Equal(t, 1, bm.Flushes)
	assert.NotZero(t, bm.Lit(0, 0, Width, logPitch+2))
}

func iconPixels() (n int) {
	for _, row := range rfIcon {
		for ; row != 0; row &= row - 1 {
			n++
		}
	}
	return n
}

type recLogger struct {
	msgs []string
}

func (r *recLogger) Debug(string)            {}
func (r *recLogger) Info(m string)           { r.msgs = append(r.msgs, m) }
func (r *recLogger) Warn(string)             {}
func (r *recLogger) Error(string)            {}
func (r *recLogger) With(string) logx.Logger { return r }

func TestLogDisplayOnlyOnChange(t *testing.T) {
	rl := &recLogger{}
	d := NewLogDisplay(rl)
	s := snapshot()
	for i := 0; i < 3; i++ {
		d.Clear()
		d.Draw(s)
		require.NoError(t, d.Flush())
	}
	s.TicksSinceLastTx = 1
	d.Draw(s)
	require.NoError(t, d.Flush())
	assert.Equal(t, []string{"21.05C 41% 612ppm", "21.05C 41% 612ppm RF"}, rl.msgs)
}
