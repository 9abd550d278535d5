package node

import "time"

// Scheduler.
const (
	TickHz        = 5
	TxThreshold   = 50 // ticks, ≈10 s
	ReadThreshold = 10 // ticks, ≈2 s
)

// History.
const HistoryDepth = 8

// Radio.
const (
	BitRateHz     = 2000
	PacketGap     = 100 * time.Millisecond
	IDTemperature = 0xED
	IDHumidity    = 0xEE
	IDCO2         = 0xEF
)

// Main loop.
const LoopDelay = 10 * time.Millisecond
