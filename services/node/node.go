// Package node is the main loop of the telemetry node: it services the read
// and transmit requests raised by the tick interrupt, keeps the rolling
// averages and drives the display.
package node

import (
	"context"
	"time"

	"envnode-go/bus"
	"envnode-go/drivers/rhask"
	"envnode-go/errcode"
	"envnode-go/types"
	"envnode-go/x/conv"
	"envnode-go/x/logx"
)

// TemperatureSensor returns hundredths of °C.
type TemperatureSensor interface {
	Temperature() (int16, error)
}

// HumiditySensor returns whole %RH.
type HumiditySensor interface {
	Humidity() (uint16, error)
}

// CO2Sensor returns ppm.
type CO2Sensor interface {
	Read() (uint16, error)
}

// Radio sends one packet, blocking for its duration.
type Radio interface {
	Send(h rhask.Header, payload []byte) error
}

// Display renders a snapshot once per loop iteration.
type Display interface {
	Clear()
	Draw(s types.Snapshot)
	Flush() error
}

// Peripherals are the node's collaborators. Display and Conn may be nil.
type Peripherals struct {
	Temperature TemperatureSensor
	Humidity    HumiditySensor
	CO2         CO2Sensor
	Radio       Radio
	Display     Display
	Conn        *bus.Connection
}

// Config controls non-hardware behaviour. Zero fields take the firmware
// defaults.
type Config struct {
	From, To, Flags byte
	PacketGap       time.Duration
	LoopDelay       time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

var (
	TopicSnapshot = bus.T("node", "snapshot")
	TopicTx       = bus.T("node", "tx")
)

// Node owns the main loop.
type Node struct {
	sh  *Shared
	p   Peripherals
	cfg Config
	log logx.Logger
	buf []byte
}

// New returns a node servicing sh. Radio addresses default to broadcast.
func New(sh *Shared, p Peripherals, cfg Config) *Node {
	if cfg.From == 0 && cfg.To == 0 {
		cfg.From, cfg.To = rhask.Broadcast, rhask.Broadcast
	}
	if cfg.PacketGap == 0 {
		cfg.PacketGap = PacketGap
	}
	if cfg.LoopDelay == 0 {
		cfg.LoopDelay = LoopDelay
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	return &Node{sh: sh, p: p, cfg: cfg, log: logx.Named("node"), buf: make([]byte, 0, 64)}
}

// Run loops until ctx is cancelled. An in-progress cycle is never
// interrupted.
func (n *Node) Run(ctx context.Context) error {
	n.log.Info("main loop started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n.Step()
	}
}

// Step is one main-loop iteration.
func (n *Node) Step() {
	read, tx := n.sh.Flags()
	if read {
		n.readCycle()
	}
	if tx {
		n.txCycle()
	}
	n.render()
	n.cfg.Sleep(n.cfg.LoopDelay)
}

func (n *Node) readCycle() {
	var c Cycle
	c.Temperature, c.TemperatureErr = n.p.Temperature.Temperature()
	c.Humidity, c.HumidityErr = n.p.Humidity.Humidity()
	c.CO2, c.CO2Err = n.p.CO2.Read()

	var snap types.Snapshot
	n.sh.Update(func(s *State) {
		s.Record(c)
		s.ReadRequested = false
		snap = s.Snapshot()
	})

	n.warnChannel(types.ChannelTemperature, c.TemperatureErr)
	n.warnChannel(types.ChannelHumidity, c.HumidityErr)
	n.warnChannel(types.ChannelCO2, c.CO2Err)
	n.trace("LAST", snap.Last, true)
	n.trace("AVRG", snap.Averages.Readings, snap.Averages.Valid)

	if n.p.Conn != nil {
		n.p.Conn.Publish(n.p.Conn.NewMessage(TopicSnapshot, snap, true))
	}
}

func (n *Node) txCycle() {
	avg := n.sh.Averages()
	rep := types.TxReport{}

	if !avg.Valid {
		rep.Skipped = true
		n.log.Debug("tx skipped: no samples yet")
	} else {
		payloads := EncodeAverages(avg)
		for i, ch := range types.Channels {
			if i > 0 {
				n.cfg.Sleep(n.cfg.PacketGap)
			}
			h := rhask.Header{From: n.cfg.From, To: n.cfg.To, ID: ChannelID(ch), Flags: n.cfg.Flags}
			if err := n.p.Radio.Send(h, payloads[ch][:]); err != nil {
				rep.Failed++
				rep.Err = n.txFailure(ch, err)
				n.log.Warn(rep.Err)
				continue
			}
			rep.Sent++
		}
	}

	// Cleared even after a failed packet; the next period retries from fresh averages.
	n.sh.Update(func(s *State) {
		s.TxRequested = false
		rep.TicksSinceReset = s.TicksSinceReset
	})

	if n.p.Conn != nil {
		n.p.Conn.Publish(n.p.Conn.NewMessage(TopicTx, rep, false))
	}
}

// txFailure formats "tx humidity id=0xEE failed: port: <cause>".
func (n *Node) txFailure(ch types.Channel, err error) string {
	b := append(n.buf[:0], "tx "...)
	b = append(b, ch.String()...)
	b = append(b, " id=0x"...)
	b = conv.AppendHex8(b, ChannelID(ch))
	b = append(b, " failed: "...)
	b = append(b, string(errcode.Of(err))...)
	b = append(b, ": "...)
	b = append(b, err.Error()...)
	return string(b)
}

func (n *Node) render() {
	if n.p.Display == nil {
		return
	}
	snap := n.sh.Snapshot()
	n.p.Display.Clear()
	n.p.Display.Draw(snap)
	if err := n.p.Display.Flush(); err != nil {
		n.log.Debug("display flush: " + err.Error())
	}
}

func (n *Node) warnChannel(c types.Channel, err error) {
	if err == nil {
		return
	}
	n.log.Warn(c.String() + " read failed: " + string(errcode.Of(err)))
}

// trace logs "LAST T:21.05 H:40 CO2:415".
func (n *Node) trace(tag string, r types.Readings, ok bool) {
	b := append(n.buf[:0], tag...)
	if !ok {
		b = append(b, " --"...)
		n.log.Debug(string(b))
		return
	}
	b = append(b, " T:"...)
	b = conv.AppendCenti(b, int64(r.Temperature.CentiC))
	b = append(b, " H:"...)
	b = conv.AppendUint(b, uint64(r.Humidity.Percent))
	b = append(b, " CO2:"...)
	b = conv.AppendUint(b, uint64(r.CO2.PPM))
	n.buf = b
	n.log.Debug(string(b))
}
