package node

import (
	"envnode-go/types"
	"envnode-go/x/critical"
	"envnode-go/x/ringbuf"
)

// Shared owns the two resources touched from interrupt context: the node
// State and the UART receive ring. Every method enters the critical section
// for the duration of one field access and nothing else.
type Shared struct {
	state *critical.Cell[State]
	rx    *critical.Cell[ringbuf.Ring[byte]]
}

// NewShared returns shared state running on schedule s.
func NewShared(s Schedule) *Shared {
	return &Shared{
		state: critical.NewCell(NewState(s)),
		rx:    critical.NewCell(ringbuf.Ring[byte]{}),
	}
}

// Tick is installed as the timer interrupt handler.
func (sh *Shared) Tick() {
	sh.state.With(func(s *State) { s.Tick() })
}

// OnRx is installed as the UART receive interrupt handler.
func (sh *Shared) OnRx(b byte) {
	sh.rx.With(func(r *ringbuf.Ring[byte]) { r.Push(b) })
}

// Ticks returns the tick counter. It satisfies mhz19b.Clock.
func (sh *Shared) Ticks() uint32 {
	return critical.Get(sh.state, func(s *State) uint32 { return s.TicksSinceReset })
}

// Flags reads both request flags without clearing them.
func (sh *Shared) Flags() (read, tx bool) {
	sh.state.With(func(s *State) { read, tx = s.ReadRequested, s.TxRequested })
	return read, tx
}

// Snapshot copies the state.
func (sh *Shared) Snapshot() types.Snapshot {
	return critical.Get(sh.state, func(s *State) types.Snapshot { return s.Snapshot() })
}

// Averages copies the current averages.
func (sh *Shared) Averages() types.Averages {
	return critical.Get(sh.state, func(s *State) types.Averages { return s.Sensors.Averages })
}

// RX returns the receive ring as an mhz19b.Source.
func (sh *Shared) RX() RxQueue { return RxQueue{c: sh.rx} }

// Update runs fn on the state inside the critical section. fn must not block.
func (sh *Shared) Update(fn func(s *State)) { sh.state.With(fn) }

// RxQueue is the main-loop side of the receive ring.
type RxQueue struct {
	c *critical.Cell[ringbuf.Ring[byte]]
}

// Clear discards any buffered bytes.
func (q RxQueue) Clear() {
	q.c.With(func(r *ringbuf.Ring[byte]) { r.Clear() })
}

// Drain moves up to len(dst) bytes out of the ring.
func (q RxQueue) Drain(dst []byte) int {
	return critical.Get(q.c, func(r *ringbuf.Ring[byte]) int { return r.Drain(dst) })
}

// Size returns the number of buffered bytes.
func (q RxQueue) Size() int {
	return critical.Get(q.c, func(r *ringbuf.Ring[byte]) int { return r.Size() })
}
