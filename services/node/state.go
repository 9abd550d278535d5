package node

import (
	"envnode-go/types"
	"envnode-go/x/mathx"
)

// Schedule holds the cooldown thresholds, in ticks. A counter fires on the
// first tick where it is strictly greater than its threshold.
type Schedule struct {
	TxTicks   uint32
	ReadTicks uint32
}

// DefaultSchedule is the firmware schedule.
var DefaultSchedule = Schedule{TxTicks: TxThreshold, ReadTicks: ReadThreshold}

// Histories holds per-channel history, the shared sample count and the
// averages derived from them.
type Histories struct {
	Temperature History[int16]
	Humidity    History[uint16]
	CO2         History[uint16]
	NumPoints   uint8
	Averages    types.Averages
}

// Cycle is the outcome of one read cycle, gathered outside the critical
// section.
type Cycle struct {
	Temperature    int16
	TemperatureErr error
	Humidity       uint16
	HumidityErr    error
	CO2            uint16
	CO2Err         error
}

// State is the node state shared between the timer interrupt and the main
// loop. It is only ever touched through a critical.Cell.
type State struct {
	Schedule Schedule

	TicksSinceReset    uint32
	TicksSinceLastTx   uint32
	TicksSinceLastRead uint32
	ReadRequested      bool
	TxRequested        bool

	Sensors Histories
	Errors  types.ChannelErrors
}

// NewState returns a zeroed state with the given schedule.
func NewState(s Schedule) State { return State{Schedule: s} }

// Tick is the timer interrupt transition.
func (s *State) Tick() {
	s.TicksSinceReset++

	if s.TicksSinceLastTx > s.Schedule.TxTicks {
		s.TicksSinceLastTx = 0
		s.TxRequested = true
	} else {
		s.TicksSinceLastTx++
	}

	if s.TicksSinceLastRead > s.Schedule.ReadTicks {
		s.TicksSinceLastRead = 0
		s.ReadRequested = true
	} else {
		s.TicksSinceLastRead++
	}
}

// Record applies a read cycle: each channel is written, the sample count
// advances once and every average is recomputed.
func (s *State) Record(c Cycle) {
	h := &s.Sensors
	WriteValue(&h.Temperature, &s.Errors.Temperature, c.Temperature, c.TemperatureErr)
	WriteValue(&h.Humidity, &s.Errors.Humidity, c.Humidity, c.HumidityErr)
	WriteValue(&h.CO2, &s.Errors.CO2, c.CO2, c.CO2Err)

	h.NumPoints = mathx.SatInc(h.NumPoints, HistoryDepth)
	h.recalc()
}

func (h *Histories) recalc() {
	t, ok := h.Temperature.Mean(h.NumPoints)
	if !ok {
		h.Averages = types.Averages{}
		return
	}
	hu, _ := h.Humidity.Mean(h.NumPoints)
	co, _ := h.CO2.Mean(h.NumPoints)
	h.Averages = types.Averages{
		Readings: types.Readings{
			Temperature: types.TemperatureValue{CentiC: t},
			Humidity:    types.HumidityValue{Percent: hu},
			CO2:         types.CO2Value{PPM: co},
		},
		Valid: true,
	}
}

// Snapshot copies the state for rendering and publishing.
func (s *State) Snapshot() types.Snapshot {
	h := &s.Sensors
	t, _ := h.Temperature.Last()
	hu, _ := h.Humidity.Last()
	co, _ := h.CO2.Last()
	return types.Snapshot{
		TicksSinceReset:    s.TicksSinceReset,
		TicksSinceLastTx:   s.TicksSinceLastTx,
		TicksSinceLastRead: s.TicksSinceLastRead,
		ReadRequested:      s.ReadRequested,
		TxRequested:        s.TxRequested,
		NumPoints:          h.NumPoints,
		Last: types.Readings{
			Temperature: types.TemperatureValue{CentiC: t},
			Humidity:    types.HumidityValue{Percent: hu},
			CO2:         types.CO2Value{PPM: co},
		},
		Averages: h.Averages,
		Errors:   s.Errors,
	}
}
