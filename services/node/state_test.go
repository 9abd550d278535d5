package node

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickTxFiresOnce(t *testing.T) {
	s := NewState(DefaultSchedule)
	fired := []int{}
	for i := 0; i <= TxThreshold; i++ { // tick indices 0..50
		s.Tick()
		if s.TxRequested {
			fired = append(fired, i)
			s.TxRequested = false
		}
	}
	assert.Empty(t, fired, "counter must exceed the threshold, not reach it")
	assert.Equal(t, uint32(TxThreshold+1), s.TicksSinceLastTx)

	// Tick index 51: the counter is now strictly greater than 50.
	s.Tick()
	assert.True(t, s.TxRequested)
	assert.Equal(t, uint32(0), s.TicksSinceLastTx)
	assert.Equal(t, uint32(TxThreshold+2), s.TicksSinceReset)
}

func TestTickReadPeriod(t *testing.T) {
	s := NewState(DefaultSchedule)
	var fired []uint32
	for i := 0; i < 40; i++ {
		s.Tick()
		if s.ReadRequested {
			fired = append(fired, s.TicksSinceReset)
			s.ReadRequested = false
		}
	}
	assert.Equal(t, []uint32{12, 24, 36}, fired)
}

func TestTickFlagsAreLevelTriggered(t *testing.T) {
	s := NewState(Schedule{TxTicks: 2, ReadTicks: 1000})
	for i := 0; i < 4; i++ {
		s.Tick()
	}
	require.True(t, s.TxRequested)

	// Nobody services the flag: it stays set and the cooldown keeps running.
	for i := 0; i < 3; i++ {
		s.Tick()
		assert.True(t, s.TxRequested)
	}
	assert.Equal(t, uint32(3), s.TicksSinceLastTx)
}

func TestTickCounterWraps(t *testing.T) {
	s := NewState(DefaultSchedule)
	s.TicksSinceReset = 0xFFFFFFFF
	s.Tick()
	assert.Equal(t, uint32(0), s.TicksSinceReset)
}

func TestAveragingZeroPadding(t *testing.T) {
	var h History[uint16]
	for _, v := range []uint16{10, 20, 30} {
		h.Push(v)
	}
	// Unwritten slots are zero and still summed.
	got, ok := h.Mean(3)
	require.True(t, ok)
	assert.Equal(t, uint16((10+20+30+0+0+0+0+0)/3), got)
}

func TestAveragingNoSamples(t *testing.T) {
	var h History[int16]
	_, ok := h.Mean(0)
	assert.False(t, ok)

	s := NewState(DefaultSchedule)
	assert.False(t, s.Snapshot().Averages.Valid)
}

func TestHistoryOverwritesOldest(t *testing.T) {
	var h History[uint16]
	for i := 1; i <= HistoryDepth+2; i++ {
		h.Push(uint16(i * 100))
	}
	// 300..1000
	assert.Equal(t, int32(300+400+500+600+700+800+900+1000), h.Sum())
	last, ok := h.Last()
	assert.True(t, ok)
	assert.Equal(t, uint16(1000), last)
}

func TestHistorySumDoesNotOverflow(t *testing.T) {
	var h History[uint16]
	for i := 0; i < HistoryDepth; i++ {
		h.Push(0xFFFF)
	}
	m, ok := h.Mean(HistoryDepth)
	require.True(t, ok)
	assert.Equal(t, uint16(0xFFFF), m)

	var n History[int16]
	for i := 0; i < HistoryDepth; i++ {
		n.Push(-32768)
	}
	v, _ := n.Mean(HistoryDepth)
	assert.Equal(t, int16(-32768), v)
}

func TestWriteValue(t *testing.T) {
	var h History[int16]
	flag := false

	WriteValue(&h, &flag, 2100, nil)
	assert.False(t, flag)
	assert.Equal(t, int32(2100), h.Sum())

	WriteValue(&h, &flag, 9999, errors.New("nack"))
	assert.True(t, flag)
	assert.Equal(t, int32(2100), h.Sum(), "failed read must not touch history")

	WriteValue(&h, &flag, 100, nil)
	assert.False(t, flag)
	assert.Equal(t, int32(2200), h.Sum())
}

func TestRecord(t *testing.T) {
	s := NewState(DefaultSchedule)
	for i := 0; i < HistoryDepth+3; i++ {
		s.Record(Cycle{Temperature: 2000, Humidity: 40, CO2: 400})
	}
	assert.Equal(t, uint8(HistoryDepth), s.Sensors.NumPoints)

	a := s.Sensors.Averages
	require.True(t, a.Valid)
	assert.Equal(t, int16(2000), a.Temperature.CentiC)
	assert.Equal(t, uint16(40), a.Humidity.Percent)
	assert.Equal(t, uint16(400), a.CO2.PPM)

	s.Record(Cycle{Temperature: 2800, Humidity: 40, CO2Err: errors.New("timeout")})
	assert.True(t, s.Errors.CO2)
	assert.False(t, s.Errors.Temperature)
	assert.Equal(t, uint16(400), s.Sensors.Averages.CO2.PPM)
	assert.Equal(t, int16(2100), s.Sensors.Averages.Temperature.CentiC)
}

func TestRecordEarlyAveragesAreDiluted(t *testing.T) {
	s := NewState(DefaultSchedule)
	s.Record(Cycle{TemperatureErr: errors.New("x"), Humidity: 50, CO2: 800})
	s.Record(Cycle{Temperature: 2000, Humidity: 50, CO2Err: errors.New("x")})

	a := s.Sensors.Averages
	assert.Equal(t, uint8(2), s.Sensors.NumPoints)
	assert.Equal(t, int16(1000), a.Temperature.CentiC)
	assert.Equal(t, uint16(50), a.Humidity.Percent)
	assert.Equal(t, uint16(400), a.CO2.PPM)
}
