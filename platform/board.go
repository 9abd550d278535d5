// Package platform wires node collaborators to hardware: a simulated board
// for any host, Linux GPIO/I2C/serial through periph.io and go.bug.st/serial,
// and the rp2040 firmware board.
package platform

import (
	"context"
	"time"

	"envnode-go/drivers/mhz19b"
	"envnode-go/drivers/rhask"
	"envnode-go/services/node"
	"envnode-go/x/timex"
)

// Board is the set of collaborators one platform provides.
type Board struct {
	Temperature node.TemperatureSensor
	Humidity    node.HumiditySensor
	CO2         mhz19b.Transport
	Pin         rhask.Pin
	Timer       rhask.BitTimer

	closers []func() error
}

// Close releases platform resources in reverse order of acquisition.
func (b *Board) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	b.closers = nil
	return first
}

func (b *Board) onClose(fn func() error) { b.closers = append(b.closers, fn) }

// RunTicker calls tick at hz until ctx is done. It stands in for the
// periodic timer interrupt on hosts, where goroutines are preemptive; the
// rp2040 firmware uses StartTickInterrupt.
func RunTicker(ctx context.Context, hz uint32, tick func()) {
	t := time.NewTicker(timex.PeriodFromHz(hz))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			tick()
		}
	}
}
