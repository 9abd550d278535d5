// Package mhz19b reads CO2 concentration from an MH-Z19B NDIR sensor over a
// UART using the sensor's 9-byte request/response protocol.
//
// The driver never reads the UART itself. Received bytes are expected to be
// pushed into a shared queue by the UART receive interrupt; Read clears that
// queue, writes the request, then polls the queue until a full response
// arrives or a tick-based timeout expires.
package mhz19b

import (
	"runtime"

	"envnode-go/errcode"
)

// FrameLen is the size of every request and response frame.
const FrameLen = 9

const (
	startByte  = 0xFF
	sensorNum  = 0x01
	cmdReadCO2 = 0x86
)

// DefaultTimeoutTicks bounds the wait for a response, in scheduler ticks.
const DefaultTimeoutTicks = 5

// ReadRequest is the "read gas concentration" command frame.
var ReadRequest = [FrameLen]byte{startByte, sensorNum, cmdReadCO2, 0, 0, 0, 0, 0, 0x79}

// Errors returned by the driver. All are errcode.Code values.
var (
	ErrIncompletePacket = errcode.IncompletePacket
	ErrWrongStartByte   = errcode.WrongStartByte
	ErrWrongChecksum    = errcode.WrongChecksum
	ErrTimeout          = errcode.Timeout
)

// Transport is the blocking serial TX side.
type Transport interface {
	WriteByte(c byte) error
	Flush() error
}

// Source is the queue the UART RX interrupt fills. Implementations must
// guard each call with the global critical section.
type Source interface {
	Clear()
	Drain(dst []byte) int
}

// Clock returns the scheduler tick counter. It wraps at 2^32.
type Clock interface {
	Ticks() uint32
}

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// TimeoutTicks defaults to DefaultTimeoutTicks.
	TimeoutTicks uint32
	// Yield is called on every empty poll so that cooperative schedulers can
	// run the RX pump. Defaults to runtime.Gosched.
	Yield func()
}

// Device is one MH-Z19B on a serial transport.
type Device struct {
	tr  Transport
	rx  Source
	clk Clock
	cfg Config
}

// New creates a Device. It does not touch the sensor.
func New(tr Transport, rx Source, clk Clock) *Device {
	d := &Device{tr: tr, rx: rx, clk: clk}
	d.Configure(Config{})
	return d
}

// Configure applies cfg, filling defaults for zero fields.
func (d *Device) Configure(cfg Config) {
	if cfg.TimeoutTicks == 0 {
		cfg.TimeoutTicks = DefaultTimeoutTicks
	}
	if cfg.Yield == nil {
		cfg.Yield = runtime.Gosched
	}
	d.cfg = cfg
}

// Read performs one request/response exchange and returns the CO2
// concentration in ppm. It blocks until a full frame arrives or the timeout
// expires; it must not be called from interrupt context.
func (d *Device) Read() (uint16, error) {
	// Stale bytes from an earlier exchange would misalign the frame.
	d.rx.Clear()

	for _, c := range ReadRequest {
		if err := d.tr.WriteByte(c); err != nil {
			return 0, errcode.Wrap(errcode.IO, "mhz19b.write", err)
		}
	}
	if err := d.tr.Flush(); err != nil {
		return 0, errcode.Wrap(errcode.IO, "mhz19b.flush", err)
	}

	var frame [FrameLen]byte
	n := 0
	start := d.clk.Ticks()
	for {
		n += d.rx.Drain(frame[n:])
		if n == FrameLen {
			return ParseResponse(frame[:])
		}
		if elapsed(&start, d.clk.Ticks()) > d.cfg.TimeoutTicks {
			return 0, ErrTimeout
		}
		d.cfg.Yield()
	}
}

// elapsed returns the ticks since *start. If the counter wrapped since start
// was taken, start is re-based to now instead of underflowing.
func elapsed(start *uint32, now uint32) uint32 {
	if *start > now {
		*start = now
	}
	return now - *start
}

// Checksum computes the frame checksum over bytes 1..7 of a frame:
// 1 + (0xFF - sum) modulo 256.
func Checksum(b []byte) byte {
	var sum byte
	for _, c := range b {
		sum += c
	}
	return 1 + (0xFF - sum)
}

// ParseResponse validates a response frame and decodes the big-endian
// concentration in bytes 2..3.
func ParseResponse(buf []byte) (uint16, error) {
	switch {
	case len(buf) < FrameLen:
		return 0, ErrIncompletePacket
	case buf[0] != startByte:
		return 0, ErrWrongStartByte
	case buf[8] != Checksum(buf[1:8]):
		return 0, ErrWrongChecksum
	}
	return uint16(buf[2])<<8 | uint16(buf[3]), nil
}

// Response builds a well-formed read response carrying ppm. Useful for
// simulated sensors and tests.
func Response(ppm uint16) [FrameLen]byte {
	f := [FrameLen]byte{startByte, cmdReadCO2, byte(ppm >> 8), byte(ppm), 0x47, 0, 0, 0}
	f[8] = Checksum(f[1:8])
	return f
}
